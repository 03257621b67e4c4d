package telegram

import (
	"context"
	"strconv"
)

// SendOptions are the optional parameters shared by the send methods. A nil
// *SendOptions means defaults.
type SendOptions struct {
	DisableWebPagePreview bool
	ReplyToMessageID      int
	ReplyMarkup           ReplyMarkup
	// Caption applies to media sends only.
	Caption string
}

func (o *SendOptions) replyParams(params map[string]string) {
	if o == nil {
		return
	}
	if o.ReplyToMessageID != 0 {
		params["reply_to_message_id"] = strconv.Itoa(o.ReplyToMessageID)
	}
	if o.ReplyMarkup != nil {
		params["reply_markup"] = o.ReplyMarkup.WireFormat()
	}
}

func chatParams(to Recipient) map[string]string {
	return map[string]string{"chat_id": strconv.FormatInt(to.RecipientID(), 10)}
}

// GetMe fetches the bot's own identity and refreshes Me.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	me, err := invoke[User](ctx, c, "getMe", nil, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.me = *me
	c.mu.Unlock()
	return me, nil
}

// Poll fetches updates past the current offset, appends every received
// message to the log in server order and advances the offset past the
// highest update id. On any failure neither the log nor the offset changes.
func (c *Client) Poll(ctx context.Context) error {
	const method = "getUpdates"

	c.mu.Lock()
	defer c.mu.Unlock()

	params := map[string]string{"offset": strconv.Itoa(c.offset)}
	updates, err := invoke[[]Update](ctx, c, method, params, nil)
	if err != nil {
		return err
	}

	for _, u := range *updates {
		if u.Message != nil {
			c.messages = append(c.messages, *u.Message)
		}
		if u.UpdateID >= c.offset {
			c.offset = u.UpdateID + 1
		}
	}

	recordUpdates(len(*updates))
	setMessageLogSize(len(c.messages))
	c.logger.Debug("received updates", "count", len(*updates), "offset", c.offset)
	return nil
}

// SendMessage sends a text message.
func (c *Client) SendMessage(ctx context.Context, to Recipient, text string, opts *SendOptions) (*Message, error) {
	const method = "sendMessage"
	if to == nil {
		return nil, c.remember(method, usageError("no recipient"))
	}
	params := chatParams(to)
	params["text"] = text
	params["disable_web_page_preview"] = strconv.FormatBool(opts != nil && opts.DisableWebPagePreview)
	opts.replyParams(params)
	return invoke[Message](ctx, c, method, params, nil)
}

// ForwardMessage forwards msg to another chat.
func (c *Client) ForwardMessage(ctx context.Context, to Recipient, msg *Message) (*Message, error) {
	const method = "forwardMessage"
	if to == nil || msg == nil {
		return nil, c.remember(method, usageError("forward needs a recipient and a message"))
	}
	params := chatParams(to)
	params["from_chat_id"] = strconv.FormatInt(msg.Chat.ID, 10)
	params["message_id"] = strconv.Itoa(msg.MessageID)
	return invoke[Message](ctx, c, method, params, nil)
}

// Ping forwards msg back to the chat it came from.
func (c *Client) Ping(ctx context.Context, msg *Message) (*Message, error) {
	if msg == nil {
		return nil, c.remember("forwardMessage", usageError("no message to ping"))
	}
	return c.ForwardMessage(ctx, msg.Chat, msg)
}

// SendObject sends a photo, audio, voice note, document, sticker or video.
// An Upload is posted as multipart data; a Reference re-sends content the
// server already has. The Upload's file is closed when SendObject returns,
// whether or not the call got as far as the network.
func (c *Client) SendObject(ctx context.Context, to Recipient, media Media, kind MediaKind, opts *SendOptions) (*Message, error) {
	if u, ok := media.(Upload); ok {
		defer u.File.Close()
	}

	method, ok := kind.method()
	if !ok {
		return nil, c.remember("sendObject", usageError("unknown media kind %q", kind))
	}
	if to == nil {
		return nil, c.remember(method, usageError("no recipient"))
	}
	if err := validateMedia(media); err != nil {
		return nil, c.remember(method, err)
	}

	params := chatParams(to)
	opts.replyParams(params)
	if opts != nil && opts.Caption != "" {
		params["caption"] = opts.Caption
	}

	switch m := media.(type) {
	case Upload:
		return invoke[Message](ctx, c, method, params, &uploadPart{field: string(kind), file: m.File})
	case Reference:
		params[string(kind)] = m.FileID
		c.logger.Debug("resending file", "method", method, "file_id", m.FileID)
		return invoke[Message](ctx, c, method, params, nil)
	}
	return nil, c.remember(method, usageError("no media given"))
}

// SendPhoto sends a photo.
func (c *Client) SendPhoto(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindPhoto, opts)
}

// SendAudio sends an audio file.
func (c *Client) SendAudio(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindAudio, opts)
}

// SendVoice sends a voice note.
func (c *Client) SendVoice(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindVoice, opts)
}

// SendDocument sends a general file.
func (c *Client) SendDocument(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindDocument, opts)
}

// SendSticker sends a sticker.
func (c *Client) SendSticker(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindSticker, opts)
}

// SendVideo sends a video.
func (c *Client) SendVideo(ctx context.Context, to Recipient, media Media, opts *SendOptions) (*Message, error) {
	return c.sendKind(ctx, to, media, KindVideo, opts)
}

func (c *Client) sendKind(ctx context.Context, to Recipient, media Media, kind MediaKind, opts *SendOptions) (*Message, error) {
	if to != nil && validateMedia(media) == nil {
		if action, ok := statusActions[kind]; ok {
			c.announce(ctx, to, action)
		}
	}
	return c.SendObject(ctx, to, media, kind, opts)
}

// announce emits a chat action when auto-status is on. Its failure is logged
// and otherwise ignored.
func (c *Client) announce(ctx context.Context, to Recipient, action ChatAction) {
	if !c.AutoStatus() {
		return
	}
	if err := c.SetChatAction(ctx, to, action); err != nil {
		c.logger.Debug("auto status failed", "action", action, "error", err)
	}
}

// SendLocation sends a point on the map.
func (c *Client) SendLocation(ctx context.Context, to Recipient, loc Location, opts *SendOptions) (*Message, error) {
	const method = "sendLocation"
	if to == nil {
		return nil, c.remember(method, usageError("no recipient"))
	}
	c.announce(ctx, to, ActionFindLocation)

	params := chatParams(to)
	params["latitude"] = strconv.FormatFloat(loc.Latitude, 'f', -1, 64)
	params["longitude"] = strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
	opts.replyParams(params)
	return invoke[Message](ctx, c, method, params, nil)
}

// SetChatAction shows a transient status in the chat. Unknown actions are
// rejected without a request.
func (c *Client) SetChatAction(ctx context.Context, to Recipient, action ChatAction) error {
	const method = "sendChatAction"
	if !action.Valid() {
		return c.remember(method, usageError("unknown chat action %q", action))
	}
	if to == nil {
		return c.remember(method, usageError("no recipient"))
	}
	params := chatParams(to)
	params["action"] = string(action)
	_, err := invoke[bool](ctx, c, method, params, nil)
	return err
}

// UserProfilePhotos lists a user's profile pictures. Zero offset or limit
// leaves the server defaults.
func (c *Client) UserProfilePhotos(ctx context.Context, user Recipient, offset, limit int) (*UserProfilePhotos, error) {
	const method = "getUserProfilePhotos"
	if user == nil {
		return nil, c.remember(method, usageError("no user"))
	}
	params := map[string]string{"user_id": strconv.FormatInt(user.RecipientID(), 10)}
	if offset > 0 {
		params["offset"] = strconv.Itoa(offset)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return invoke[UserProfilePhotos](ctx, c, method, params, nil)
}
