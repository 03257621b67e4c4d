package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/runixer/telebind/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	stored [][]telegram.Message
	err    error
	closed bool
}

func (r *recordingSink) Store(ctx context.Context, msgs []telegram.Message) error {
	r.stored = append(r.stored, msgs)
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return r.err
}

func TestMulti(t *testing.T) {
	good := &recordingSink{}
	bad := &recordingSink{err: errors.New("disk full")}
	sinks := Multi{bad, good}

	msgs := []telegram.Message{testutil.TextMessage(1, 1, "a")}
	err := sinks.Store(context.Background(), msgs)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, [][]telegram.Message{msgs}, good.stored)

	err = sinks.Close()
	assert.Error(t, err)
	assert.True(t, good.closed)
	assert.True(t, bad.closed)

	assert.NoError(t, Multi{}.Store(context.Background(), msgs))
}

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  func() telegram.Message
		want Event
	}{
		{
			name: "text",
			msg:  func() telegram.Message { return testutil.TextMessage(5, 9, "hello") },
			want: Event{ChatID: 5, MessageID: 9, Type: telegram.ContentText, Text: "hello"},
		},
		{
			name: "photo with caption",
			msg: func() telegram.Message {
				m := testutil.TextMessage(5, 10, "")
				m.Content = telegram.Photo{{FileID: "small"}, {FileID: "large"}}
				m.Caption = testutil.Ptr("look")
				return m
			},
			want: Event{ChatID: 5, MessageID: 10, Type: telegram.ContentPhoto, Text: "look", FileID: "large"},
		},
		{
			name: "voice",
			msg: func() telegram.Message {
				m := testutil.TextMessage(5, 11, "")
				m.Content = &telegram.Voice{FileID: "v1", Duration: 3}
				return m
			},
			want: Event{ChatID: 5, MessageID: 11, Type: telegram.ContentVoice, FileID: "v1"},
		},
		{
			name: "location",
			msg: func() telegram.Message {
				m := testutil.TextMessage(5, 12, "")
				m.Content = &telegram.Location{Longitude: 1, Latitude: 2}
				return m
			},
			want: Event{ChatID: 5, MessageID: 12, Type: telegram.ContentLocation},
		},
		{
			name: "unknown",
			msg: func() telegram.Message {
				m := testutil.TextMessage(5, 13, "")
				m.Content = telegram.Unknown{}
				return m
			},
			want: Event{ChatID: 5, MessageID: 13, Type: telegram.ContentUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEvent(tt.msg()))
		})
	}
}
