package telegram

import (
	"fmt"
	"strings"
	"time"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// String formats user information for display, including the username if
// available.
func (u User) String() string {
	name := strings.TrimSpace(u.FirstName + " " + deref(u.LastName))
	if u.Username != nil && *u.Username != "" {
		if name != "" {
			name = fmt.Sprintf("%s (@%s)", name, *u.Username)
		} else {
			name = "@" + *u.Username
		}
	}
	if name == "" {
		name = fmt.Sprintf("ID:%d", u.ID)
	}
	return name
}

// String formats chat information for display.
func (c Chat) String() string {
	name := deref(c.Title)
	if name == "" {
		name = strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
	}
	if c.Username != nil && *c.Username != "" {
		if name != "" {
			name = fmt.Sprintf("%s (@%s)", name, *c.Username)
		} else {
			name = "@" + *c.Username
		}
	}
	if name == "" {
		name = fmt.Sprintf("ChatID:%d", c.ID)
	}
	if c.Type == "" {
		return name
	}
	return fmt.Sprintf("%s chat %s", c.Type, name)
}

func formatTime(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "unknown time"
	}
	return t.Format("2006-01-02 15:04:05")
}

// String summarizes the message: type, sender, chat, date and content.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s message from %s in %s", formatTime(m.Date), m.Type(), m.From, m.Chat)
	if m.Forwarded && m.ForwardFrom != nil {
		fmt.Fprintf(&b, ", forwarded from %s", m.ForwardFrom)
	}
	if m.Reply && m.ReplyToMessage != nil {
		fmt.Fprintf(&b, ", reply to #%d", m.ReplyToMessage.MessageID)
	}
	switch content := m.Content.(type) {
	case Text:
		fmt.Fprintf(&b, ": %s", string(content))
	case Photo:
		if largest, ok := content.Largest(); ok {
			fmt.Fprintf(&b, ": %s", largest)
		}
	case fmt.Stringer:
		fmt.Fprintf(&b, ": %s", content)
	}
	return b.String()
}

func (p PhotoSize) String() string {
	return fmt.Sprintf("photo %s (%dx%d)", p.FileID, p.Width, p.Height)
}

func (a Audio) String() string {
	return fmt.Sprintf("audio %s (%ds)", a.FileID, a.Duration)
}

func (v Voice) String() string {
	return fmt.Sprintf("voice %s (%ds)", v.FileID, v.Duration)
}

func (d Document) String() string {
	if d.FileName != nil {
		return fmt.Sprintf("document %s named %s", d.FileID, *d.FileName)
	}
	return "document " + d.FileID
}

func (s Sticker) String() string {
	return "sticker " + s.FileID
}

func (v Video) String() string {
	return fmt.Sprintf("video %s (%dx%d, %ds)", v.FileID, v.Width, v.Height, v.Duration)
}

func (c Contact) String() string {
	name := strings.TrimSpace(c.FirstName + " " + deref(c.LastName))
	s := fmt.Sprintf("contact %s, phone %s", name, c.PhoneNumber)
	if c.UserID != nil {
		s += fmt.Sprintf(", user ID:%d", *c.UserID)
	}
	return s
}

func (l Location) String() string {
	return fmt.Sprintf("location (longitude %g, latitude %g)", l.Longitude, l.Latitude)
}
