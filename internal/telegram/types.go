package telegram

import "encoding/json"

// APIResponse is the envelope wrapped around every Bot API response.
type APIResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// Recipient is anything a message can be addressed to.
type Recipient interface {
	RecipientID() int64
}

// ChatID addresses a chat by its numeric id alone.
type ChatID int64

func (id ChatID) RecipientID() int64 { return int64(id) }

// FileReference is implemented by every entity that carries a file_id.
type FileReference interface {
	FileIdentifier() string
}

// ChatType discriminates chats. Values the API adds later are kept verbatim.
type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// Update represents an incoming update. Message is nil for update kinds
// other than new messages.
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

func (u *Update) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Update", data)
	if err != nil {
		return err
	}
	v := Update{
		UpdateID: field[int](r, "update_id"),
		Message:  optionalField[Message](r, "message"),
	}
	if r.err != nil {
		return r.err
	}
	*u = v
	return nil
}

// User represents a Telegram user or bot.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
}

func (u User) RecipientID() int64 { return u.ID }

func (u *User) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("User", data)
	if err != nil {
		return err
	}
	v := User{
		ID:        field[int64](r, "id"),
		FirstName: field[string](r, "first_name"),
		LastName:  optionalField[string](r, "last_name"),
		Username:  optionalField[string](r, "username"),
	}
	if r.err != nil {
		return r.err
	}
	*u = v
	return nil
}

// Chat represents a private chat, group, supergroup or channel.
type Chat struct {
	ID        int64    `json:"id"`
	Type      ChatType `json:"type"`
	Title     *string  `json:"title,omitempty"`
	Username  *string  `json:"username,omitempty"`
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
}

func (c Chat) RecipientID() int64 { return c.ID }

func (c *Chat) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Chat", data)
	if err != nil {
		return err
	}
	v := Chat{
		ID:        field[int64](r, "id"),
		Type:      field[ChatType](r, "type"),
		Title:     optionalField[string](r, "title"),
		Username:  optionalField[string](r, "username"),
		FirstName: optionalField[string](r, "first_name"),
		LastName:  optionalField[string](r, "last_name"),
	}
	if r.err != nil {
		return r.err
	}
	*c = v
	return nil
}

// PhotoSize represents one size of a photo or a file / sticker thumbnail.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize *int   `json:"file_size,omitempty"`
}

func (p PhotoSize) FileIdentifier() string { return p.FileID }

func (p *PhotoSize) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("PhotoSize", data)
	if err != nil {
		return err
	}
	v := PhotoSize{
		FileID:   field[string](r, "file_id"),
		Width:    field[int](r, "width"),
		Height:   field[int](r, "height"),
		FileSize: optionalField[int](r, "file_size"),
	}
	if r.err != nil {
		return r.err
	}
	*p = v
	return nil
}

// Audio represents an audio file.
type Audio struct {
	FileID   string  `json:"file_id"`
	Duration int     `json:"duration"`
	MimeType *string `json:"mime_type,omitempty"`
	FileSize *int    `json:"file_size,omitempty"`
}

func (a Audio) FileIdentifier() string { return a.FileID }

func (a *Audio) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Audio", data)
	if err != nil {
		return err
	}
	v := Audio{
		FileID:   field[string](r, "file_id"),
		Duration: field[int](r, "duration"),
		MimeType: optionalField[string](r, "mime_type"),
		FileSize: optionalField[int](r, "file_size"),
	}
	if r.err != nil {
		return r.err
	}
	*a = v
	return nil
}

// Voice represents a voice note.
type Voice struct {
	FileID   string  `json:"file_id"`
	Duration int     `json:"duration"`
	MimeType *string `json:"mime_type,omitempty"`
	FileSize *int    `json:"file_size,omitempty"`
}

func (v Voice) FileIdentifier() string { return v.FileID }

func (v *Voice) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Voice", data)
	if err != nil {
		return err
	}
	out := Voice{
		FileID:   field[string](r, "file_id"),
		Duration: field[int](r, "duration"),
		MimeType: optionalField[string](r, "mime_type"),
		FileSize: optionalField[int](r, "file_size"),
	}
	if r.err != nil {
		return r.err
	}
	*v = out
	return nil
}

// Document represents a general file (as opposed to photos, voice messages and audio files).
type Document struct {
	FileID   string     `json:"file_id"`
	Thumb    *PhotoSize `json:"thumb,omitempty"`
	FileName *string    `json:"file_name,omitempty"`
	MimeType *string    `json:"mime_type,omitempty"`
	FileSize *int       `json:"file_size,omitempty"`
}

func (d Document) FileIdentifier() string { return d.FileID }

func (d *Document) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Document", data)
	if err != nil {
		return err
	}
	v := Document{
		FileID:   field[string](r, "file_id"),
		Thumb:    optionalField[PhotoSize](r, "thumb"),
		FileName: optionalField[string](r, "file_name"),
		MimeType: optionalField[string](r, "mime_type"),
		FileSize: optionalField[int](r, "file_size"),
	}
	if r.err != nil {
		return r.err
	}
	*d = v
	return nil
}

// Sticker represents a sticker.
type Sticker struct {
	FileID   string     `json:"file_id"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Thumb    *PhotoSize `json:"thumb,omitempty"`
	FileSize *int       `json:"file_size,omitempty"`
}

func (s Sticker) FileIdentifier() string { return s.FileID }

func (s *Sticker) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Sticker", data)
	if err != nil {
		return err
	}
	v := Sticker{
		FileID:   field[string](r, "file_id"),
		Width:    field[int](r, "width"),
		Height:   field[int](r, "height"),
		Thumb:    optionalField[PhotoSize](r, "thumb"),
		FileSize: optionalField[int](r, "file_size"),
	}
	if r.err != nil {
		return r.err
	}
	*s = v
	return nil
}

// Video represents a video file.
type Video struct {
	FileID   string     `json:"file_id"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Duration int        `json:"duration"`
	Thumb    *PhotoSize `json:"thumb,omitempty"`
	MimeType *string    `json:"mime_type,omitempty"`
	FileSize *int       `json:"file_size,omitempty"`
	Caption  *string    `json:"caption,omitempty"`
}

func (v Video) FileIdentifier() string { return v.FileID }

func (v *Video) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Video", data)
	if err != nil {
		return err
	}
	out := Video{
		FileID:   field[string](r, "file_id"),
		Width:    field[int](r, "width"),
		Height:   field[int](r, "height"),
		Duration: field[int](r, "duration"),
		Thumb:    optionalField[PhotoSize](r, "thumb"),
		MimeType: optionalField[string](r, "mime_type"),
		FileSize: optionalField[int](r, "file_size"),
		Caption:  optionalField[string](r, "caption"),
	}
	if r.err != nil {
		return r.err
	}
	*v = out
	return nil
}

// Contact represents a phone contact. User is a stub built from UserID and
// FirstName and is set only when the contact is a Telegram user.
type Contact struct {
	PhoneNumber string  `json:"phone_number"`
	FirstName   string  `json:"first_name"`
	LastName    *string `json:"last_name,omitempty"`
	UserID      *int64  `json:"user_id,omitempty"`
	User        *User   `json:"-"`
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Contact", data)
	if err != nil {
		return err
	}
	v := Contact{
		PhoneNumber: field[string](r, "phone_number"),
		FirstName:   field[string](r, "first_name"),
		LastName:    optionalField[string](r, "last_name"),
		UserID:      optionalField[int64](r, "user_id"),
	}
	if r.err != nil {
		return r.err
	}
	if v.UserID != nil {
		v.User = &User{ID: *v.UserID, FirstName: v.FirstName}
	}
	*c = v
	return nil
}

// Location is a point on the map. It decodes both the Bot API field names and
// the lng/lat names used by geocoding APIs.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("Location", data)
	if err != nil {
		return err
	}
	lonKey, latKey := "longitude", "latitude"
	if !(r.has(lonKey) && r.has(latKey)) && r.has("lng") && r.has("lat") {
		lonKey, latKey = "lng", "lat"
	}
	v := Location{
		Longitude: field[float64](r, lonKey),
		Latitude:  field[float64](r, latKey),
	}
	if r.err != nil {
		return r.err
	}
	*l = v
	return nil
}

// UserProfilePhotos lists a user's profile pictures. Each inner slice holds
// the available sizes of one picture.
type UserProfilePhotos struct {
	TotalCount int           `json:"total_count"`
	Photos     [][]PhotoSize `json:"photos"`
}

func (p *UserProfilePhotos) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("UserProfilePhotos", data)
	if err != nil {
		return err
	}
	v := UserProfilePhotos{
		TotalCount: field[int](r, "total_count"),
		Photos:     field[[][]PhotoSize](r, "photos"),
	}
	if r.err != nil {
		return r.err
	}
	*p = v
	return nil
}

// File represents a file ready to be downloaded. A nil FilePath means the
// file cannot be retrieved.
type File struct {
	FileID   string  `json:"file_id"`
	FileSize *int    `json:"file_size,omitempty"`
	FilePath *string `json:"file_path,omitempty"`
}

func (f File) FileIdentifier() string { return f.FileID }

func (f *File) UnmarshalJSON(data []byte) error {
	r, err := newFieldReader("File", data)
	if err != nil {
		return err
	}
	v := File{
		FileID:   field[string](r, "file_id"),
		FileSize: optionalField[int](r, "file_size"),
		FilePath: optionalField[string](r, "file_path"),
	}
	if r.err != nil {
		return r.err
	}
	*f = v
	return nil
}
