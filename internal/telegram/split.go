package telegram

import "strings"

// MaxMessageLength is the longest text the Bot API accepts in one message,
// counted in characters.
const MaxMessageLength = 4096

// SplitText breaks text into chunks of at most limit characters. Cuts go at
// blank lines, then line ends, then spaces. A cut outside a ``` fenced block
// always wins over one inside it, and text without any break is cut hard.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := chooseCut(runes, limit)
		if chunk := strings.TrimRight(string(runes[:cut]), " \n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = trimLeadingNewlines(runes[cut:])
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// chooseCut returns the rune index to cut before. Candidates are scored by
// fence state first, then by whether they keep the chunk at least half full,
// then by break kind; ties go to the later position.
func chooseCut(runes []rune, limit int) int {
	best, bestScore := limit, 0
	fenced := false
	for i := 1; i <= limit; i++ {
		if i >= 3 && runes[i-1] == '`' && runes[i-2] == '`' && runes[i-3] == '`' {
			fenced = !fenced
		}
		rank := breakRank(runes, i)
		if rank == 0 {
			continue
		}
		score := rank
		if i > limit/2 {
			score += 10
		}
		if !fenced {
			score += 100
		}
		if score >= bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// breakRank rates cutting before runes[i]: 3 after a blank line, 2 after a
// newline, 1 after a space, 0 elsewhere.
func breakRank(runes []rune, i int) int {
	switch {
	case runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n':
		return 3
	case runes[i-1] == '\n':
		return 2
	case runes[i-1] == ' ':
		return 1
	}
	return 0
}

func trimLeadingNewlines(runes []rune) []rune {
	for len(runes) > 0 && runes[0] == '\n' {
		runes = runes[1:]
	}
	return runes
}
