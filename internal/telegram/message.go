package telegram

import (
	"encoding/json"
	"time"
)

// ContentType tags the payload carried by a Message.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentPhoto    ContentType = "photo"
	ContentAudio    ContentType = "audio"
	ContentDocument ContentType = "document"
	ContentSticker  ContentType = "sticker"
	ContentVideo    ContentType = "video"
	ContentContact  ContentType = "contact"
	ContentLocation ContentType = "location"
	ContentVoice    ContentType = "voice"
	ContentUnknown  ContentType = "unknown"
)

// Content is the payload of a Message. The concrete type is one of Text,
// Photo, *Audio, *Document, *Sticker, *Video, *Contact, *Location, *Voice or
// Unknown, and Type always matches it.
type Content interface {
	Type() ContentType
	isContent()
}

// Text is the content of a plain text message.
type Text string

// Photo lists the available sizes of a photo, smallest first.
type Photo []PhotoSize

// Unknown is the content of messages whose payload is not modelled.
type Unknown struct{}

func (Text) Type() ContentType     { return ContentText }
func (Photo) Type() ContentType    { return ContentPhoto }
func (Audio) Type() ContentType    { return ContentAudio }
func (Document) Type() ContentType { return ContentDocument }
func (Sticker) Type() ContentType  { return ContentSticker }
func (Video) Type() ContentType    { return ContentVideo }
func (Contact) Type() ContentType  { return ContentContact }
func (Location) Type() ContentType { return ContentLocation }
func (Voice) Type() ContentType    { return ContentVoice }
func (Unknown) Type() ContentType  { return ContentUnknown }

func (Text) isContent()     {}
func (Photo) isContent()    {}
func (Audio) isContent()    {}
func (Document) isContent() {}
func (Sticker) isContent()  {}
func (Video) isContent()    {}
func (Contact) isContent()  {}
func (Location) isContent() {}
func (Voice) isContent()    {}
func (Unknown) isContent()  {}

// Largest returns the last, highest resolution size.
func (p Photo) Largest() (PhotoSize, bool) {
	if len(p) == 0 {
		return PhotoSize{}, false
	}
	return p[len(p)-1], true
}

// Message represents a message.
//
// ForwardFrom and ForwardDate are set only when Forwarded is true, and
// ReplyToMessage only when Reply is true.
type Message struct {
	MessageID      int
	From           User
	Date           time.Time
	Chat           Chat
	Forwarded      bool
	ForwardFrom    *User
	ForwardDate    *time.Time
	Reply          bool
	ReplyToMessage *Message
	Caption        *string
	Content        Content
}

// Type returns the tag of the message content.
func (m *Message) Type() ContentType {
	if m.Content == nil {
		return ContentUnknown
	}
	return m.Content.Type()
}

func (m *Message) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Message", data)
	if err != nil {
		return err
	}
	v := Message{
		MessageID: field[int](r, "message_id"),
		From:      field[User](r, "from"),
		Date:      unixTime(field[int64](r, "date")),
		Chat:      field[Chat](r, "chat"),
		Caption:   optionalField[string](r, "caption"),
	}
	if r.has("forward_from") && r.has("forward_date") {
		v.Forwarded = true
		from := field[User](r, "forward_from")
		date := unixTime(field[int64](r, "forward_date"))
		v.ForwardFrom, v.ForwardDate = &from, &date
	}
	if r.has("reply_to_message") {
		v.Reply = true
		v.ReplyToMessage = optionalField[Message](r, "reply_to_message")
	}
	v.Content = decodeContent(r)
	if r.err != nil {
		return r.err
	}
	*m = v
	return nil
}

// decodeContent picks the first marker key present, in the order text, photo,
// audio, document, sticker, video, contact, location, voice.
func decodeContent(r *fieldReader) Content {
	switch {
	case r.has("text"):
		return Text(field[string](r, "text"))
	case r.has("photo"):
		return Photo(field[[]PhotoSize](r, "photo"))
	case r.has("audio"):
		return optionalField[Audio](r, "audio")
	case r.has("document"):
		return optionalField[Document](r, "document")
	case r.has("sticker"):
		return optionalField[Sticker](r, "sticker")
	case r.has("video"):
		return optionalField[Video](r, "video")
	case r.has("contact"):
		return optionalField[Contact](r, "contact")
	case r.has("location"):
		return optionalField[Location](r, "location")
	case r.has("voice"):
		return optionalField[Voice](r, "voice")
	default:
		return Unknown{}
	}
}

// MarshalJSON encodes the message in the Bot API shape, with the content
// under its tag key.
func (m Message) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"message_id": m.MessageID,
		"from":       m.From,
		"date":       m.Date.Unix(),
		"chat":       m.Chat,
	}
	if m.Forwarded && m.ForwardFrom != nil && m.ForwardDate != nil {
		out["forward_from"] = m.ForwardFrom
		out["forward_date"] = m.ForwardDate.Unix()
	}
	if m.Reply && m.ReplyToMessage != nil {
		out["reply_to_message"] = m.ReplyToMessage
	}
	if m.Caption != nil {
		out["caption"] = *m.Caption
	}
	if t := m.Type(); t != ContentUnknown {
		out[string(t)] = m.Content
	}
	return json.Marshal(out)
}
