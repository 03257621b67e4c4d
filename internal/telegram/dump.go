package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type dumpState struct {
	Me         User           `json:"me"`
	Offset     int            `json:"offset"`
	AutoStatus bool           `json:"auto_status"`
	Vars       map[string]any `json:"vars"`
	Messages   []Message      `json:"messages"`
}

// Dump writes the client state as indented JSON for inspection. It is not a
// restore format.
func (c *Client) Dump(w io.Writer) error {
	c.mu.Lock()
	state := dumpState{
		Me:         c.me,
		Offset:     c.offset,
		AutoStatus: c.autoStatus,
		Vars:       make(map[string]any, len(c.vars)),
		Messages:   make([]Message, len(c.messages)),
	}
	for k, v := range c.vars {
		state.Vars[k] = v
	}
	copy(state.Messages, c.messages)
	c.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("dump client state: %w", err)
	}
	return nil
}

// DumpTo writes the client state to the file at path.
func (c *Client) DumpTo(path string) error {
	c.logger.Info("dumping client state", "path", path)
	f, err := os.Create(path)
	if err != nil {
		return c.remember("dump", resourceError("create dump file", err))
	}
	if err := c.Dump(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return c.remember("dump", resourceError("close dump file", err))
	}
	return nil
}
