package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyMarkupWireFormat(t *testing.T) {
	tests := []struct {
		name   string
		markup ReplyMarkup
		want   string
	}{
		{
			name: "keyboard",
			markup: ReplyKeyboardMarkup{
				Keyboard:        [][]string{{"yes", "no"}, {"cancel"}},
				ResizeKeyboard:  true,
				OneTimeKeyboard: true,
			},
			want: `{"keyboard":[["yes","no"],["cancel"]],"resize_keyboard":true,"one_time_keyboard":true,"selective":false}`,
		},
		{
			name:   "empty keyboard",
			markup: ReplyKeyboardMarkup{Selective: true},
			want:   `{"keyboard":[],"resize_keyboard":false,"one_time_keyboard":false,"selective":true}`,
		},
		{
			name:   "hide",
			markup: ReplyKeyboardHide{},
			want:   `{"hide_keyboard":true,"selective":false}`,
		},
		{
			name:   "force reply",
			markup: ForceReply{Selective: true},
			want:   `{"force_reply":true,"selective":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, tt.markup.WireFormat())
		})
	}
}
