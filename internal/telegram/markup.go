package telegram

import "encoding/json"

// ReplyMarkup is a UI control sent alongside a message as the reply_markup
// parameter.
type ReplyMarkup interface {
	WireFormat() string
}

// ReplyKeyboardMarkup shows a custom keyboard. Each inner slice is one row of
// button labels.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]string `json:"keyboard"`
	ResizeKeyboard  bool       `json:"resize_keyboard"`
	OneTimeKeyboard bool       `json:"one_time_keyboard"`
	Selective       bool       `json:"selective"`
}

func (k ReplyKeyboardMarkup) WireFormat() string {
	if k.Keyboard == nil {
		k.Keyboard = [][]string{}
	}
	return mustMarshal(k)
}

// ReplyKeyboardHide removes the current custom keyboard.
type ReplyKeyboardHide struct {
	Selective bool
}

func (h ReplyKeyboardHide) WireFormat() string {
	return mustMarshal(struct {
		HideKeyboard bool `json:"hide_keyboard"`
		Selective    bool `json:"selective"`
	}{true, h.Selective})
}

// ForceReply asks the client to show a reply interface to the user.
type ForceReply struct {
	Selective bool
}

func (f ForceReply) WireFormat() string {
	return mustMarshal(struct {
		ForceReply bool `json:"force_reply"`
		Selective  bool `json:"selective"`
	}{true, f.Selective})
}

// mustMarshal encodes values built only from strings, bools and slices of
// them, for which json.Marshal cannot fail.
func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic("telegram: marshal reply markup: " + err.Error())
	}
	return string(data)
}
