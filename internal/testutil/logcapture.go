package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// LogCapture records slog JSON output so tests can look for specific entries.
type LogCapture struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	logger *slog.Logger
}

// LogEntry is one captured record. Attributes other than level and msg end
// up in Fields.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// NewLogCapture creates a capture that records everything from debug up.
func NewLogCapture() *LogCapture {
	lc := &LogCapture{}
	lc.logger = slog.New(slog.NewJSONHandler(lc, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return lc
}

// Logger returns the logger writing into the capture.
func (lc *LogCapture) Logger() *slog.Logger {
	return lc.logger
}

func (lc *LogCapture) Write(p []byte) (int, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.buffer.Write(p)
}

// Entries parses everything captured so far.
func (lc *LogCapture) Entries() []LogEntry {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	var entries []LogEntry
	for _, line := range bytes.Split(lc.buffer.Bytes(), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		entry := LogEntry{Fields: make(map[string]any)}
		for k, v := range raw {
			switch k {
			case "level":
				entry.Level, _ = v.(string)
			case "msg":
				entry.Message, _ = v.(string)
			case "time":
			default:
				entry.Fields[k] = v
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Find returns entries with the given level (any when empty) whose message
// contains msgSubstring.
func (lc *LogCapture) Find(level, msgSubstring string) []LogEntry {
	var results []LogEntry
	for _, entry := range lc.Entries() {
		if (level == "" || strings.EqualFold(entry.Level, level)) &&
			strings.Contains(entry.Message, msgSubstring) {
			results = append(results, entry)
		}
	}
	return results
}

// FindByField returns entries carrying key with a value that prints as value.
func (lc *LogCapture) FindByField(key string, value any) []LogEntry {
	var results []LogEntry
	for _, entry := range lc.Entries() {
		if v, ok := entry.Fields[key]; ok && fmt.Sprint(v) == fmt.Sprint(value) {
			results = append(results, entry)
		}
	}
	return results
}

// HasError reports whether any ERROR entry was captured.
func (lc *LogCapture) HasError() bool {
	return len(lc.Find("error", "")) > 0
}
