package telegram

import (
	"io"
	"os"
	"path/filepath"
)

// InputFile is local content staged for upload. The client closes it once
// the upload request completes.
type InputFile struct {
	Name   string
	reader io.Reader
}

// OpenInputFile opens the file at path for upload.
func OpenInputFile(path string) (*InputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, resourceError("open input file", err)
	}
	return &InputFile{Name: filepath.Base(path), reader: f}, nil
}

// NewInputFile stages an arbitrary reader under the given file name. If r is
// also an io.Closer it is closed together with the InputFile.
func NewInputFile(name string, r io.Reader) *InputFile {
	return &InputFile{Name: name, reader: r}
}

func (f *InputFile) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

// Close releases the underlying resource. It is safe to call more than once.
func (f *InputFile) Close() error {
	if f == nil || f.reader == nil {
		return nil
	}
	c, ok := f.reader.(io.Closer)
	f.reader = nil
	if !ok {
		return nil
	}
	return c.Close()
}

// Media selects how a file reaches the server: uploaded bytes or a file_id
// the server already knows.
type Media interface {
	isMedia()
}

// Upload sends new content.
type Upload struct {
	File *InputFile
}

// Reference re-sends content by file_id without uploading it again.
type Reference struct {
	FileID string
}

func (Upload) isMedia()    {}
func (Reference) isMedia() {}

// ReferenceTo builds a Reference to an already uploaded entity.
func ReferenceTo(ref FileReference) Reference {
	return Reference{FileID: ref.FileIdentifier()}
}

// SelectMedia converts an optional upload and an optional file_id into Media.
// Exactly one of them must be set.
func SelectMedia(file *InputFile, fileID string) (Media, error) {
	switch {
	case file != nil && fileID != "":
		return nil, usageError("both an upload and a file_id were given")
	case file != nil:
		return Upload{File: file}, nil
	case fileID != "":
		return Reference{FileID: fileID}, nil
	default:
		return nil, usageError("neither an upload nor a file_id was given")
	}
}

func validateMedia(media Media) error {
	switch m := media.(type) {
	case Upload:
		if m.File == nil || m.File.reader == nil {
			return usageError("upload has no readable file")
		}
	case Reference:
		if m.FileID == "" {
			return usageError("reference has an empty file_id")
		}
	default:
		return usageError("no media given")
	}
	return nil
}

// MediaKind is the kind of object sent by SendObject.
type MediaKind string

const (
	KindPhoto    MediaKind = "photo"
	KindAudio    MediaKind = "audio"
	KindVoice    MediaKind = "voice"
	KindDocument MediaKind = "document"
	KindSticker  MediaKind = "sticker"
	KindVideo    MediaKind = "video"
)

var mediaMethods = map[MediaKind]string{
	KindPhoto:    "sendPhoto",
	KindAudio:    "sendAudio",
	KindVoice:    "sendVoice",
	KindDocument: "sendDocument",
	KindSticker:  "sendSticker",
	KindVideo:    "sendVideo",
}

// statusActions maps a kind to the chat action shown while it uploads.
// Stickers have none.
var statusActions = map[MediaKind]ChatAction{
	KindPhoto:    ActionUploadPhoto,
	KindAudio:    ActionUploadAudio,
	KindVoice:    ActionUploadAudio,
	KindDocument: ActionUploadDocument,
	KindVideo:    ActionUploadVideo,
}

func (k MediaKind) method() (string, bool) {
	m, ok := mediaMethods[k]
	return m, ok
}

// ChatAction is a transient status shown to the other party.
type ChatAction string

const (
	ActionTyping         ChatAction = "typing"
	ActionUploadPhoto    ChatAction = "upload_photo"
	ActionRecordVideo    ChatAction = "record_video"
	ActionUploadVideo    ChatAction = "upload_video"
	ActionRecordAudio    ChatAction = "record_audio"
	ActionUploadAudio    ChatAction = "upload_audio"
	ActionUploadDocument ChatAction = "upload_document"
	ActionFindLocation   ChatAction = "find_location"
)

// Valid reports whether a is one of the actions the API accepts.
func (a ChatAction) Valid() bool {
	switch a {
	case ActionTyping, ActionUploadPhoto, ActionRecordVideo, ActionUploadVideo,
		ActionRecordAudio, ActionUploadAudio, ActionUploadDocument, ActionFindLocation:
		return true
	}
	return false
}
