// Package archive stores messages drained from the client's message log.
package archive

import (
	"context"
	"errors"

	"github.com/runixer/telebind/internal/telegram"
)

// Sink persists polled messages.
type Sink interface {
	Store(ctx context.Context, msgs []telegram.Message) error
	Close() error
}

// Multi fans every call out to all sinks. A failing sink does not stop the
// others; the errors are joined.
type Multi []Sink

func (m Multi) Store(ctx context.Context, msgs []telegram.Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Store(ctx, msgs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Event is the compact form of a message pushed to queues.
type Event struct {
	ChatID    int64                `json:"chat_id"`
	MessageID int                  `json:"message_id"`
	Type      telegram.ContentType `json:"type"`
	Text      string               `json:"text,omitempty"`
	FileID    string               `json:"file_id,omitempty"`
}

// NewEvent summarizes msg. Photos report their largest size.
func NewEvent(msg telegram.Message) Event {
	e := Event{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Type:      msg.Type(),
	}
	switch c := msg.Content.(type) {
	case telegram.Text:
		e.Text = string(c)
	case telegram.Photo:
		if largest, ok := c.Largest(); ok {
			e.FileID = largest.FileID
		}
	case telegram.FileReference:
		e.FileID = c.FileIdentifier()
	}
	if e.Text == "" && msg.Caption != nil {
		e.Text = *msg.Caption
	}
	return e
}
