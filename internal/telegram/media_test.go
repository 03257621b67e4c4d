package telegram

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct {
	io.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestSelectMedia(t *testing.T) {
	file := NewInputFile("a.png", strings.NewReader("png"))

	t.Run("upload", func(t *testing.T) {
		media, err := SelectMedia(file, "")
		require.NoError(t, err)
		assert.Equal(t, Upload{File: file}, media)
	})

	t.Run("reference", func(t *testing.T) {
		media, err := SelectMedia(nil, "abc")
		require.NoError(t, err)
		assert.Equal(t, Reference{FileID: "abc"}, media)
	})

	t.Run("both", func(t *testing.T) {
		media, err := SelectMedia(file, "abc")
		assert.ErrorIs(t, err, ErrUsage)
		assert.Nil(t, media)
	})

	t.Run("neither", func(t *testing.T) {
		media, err := SelectMedia(nil, "")
		assert.ErrorIs(t, err, ErrUsage)
		assert.Nil(t, media)
	})
}

func TestValidateMedia(t *testing.T) {
	assert.NoError(t, validateMedia(Reference{FileID: "x"}))
	assert.NoError(t, validateMedia(Upload{File: NewInputFile("a", strings.NewReader(""))}))
	assert.ErrorIs(t, validateMedia(nil), ErrUsage)
	assert.ErrorIs(t, validateMedia(Reference{}), ErrUsage)
	assert.ErrorIs(t, validateMedia(Upload{}), ErrUsage)
}

func TestReferenceTo(t *testing.T) {
	assert.Equal(t, Reference{FileID: "st1"}, ReferenceTo(Sticker{FileID: "st1"}))
}

func TestInputFileClose(t *testing.T) {
	rc := &closeCounter{Reader: strings.NewReader("data")}
	f := NewInputFile("data.bin", rc)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 1, rc.closed)
	assert.ErrorIs(t, validateMedia(Upload{File: f}), ErrUsage)
}

func TestOpenInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice.ogg")
	require.NoError(t, os.WriteFile(path, []byte("ogg"), 0o600))

	f, err := OpenInputFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "voice.ogg", f.Name)

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "ogg", string(data))

	_, err = OpenInputFile(filepath.Join(t.TempDir(), "missing.ogg"))
	assert.ErrorIs(t, err, ErrResource)
}

func TestChatActionValid(t *testing.T) {
	assert.True(t, ActionTyping.Valid())
	assert.True(t, ActionFindLocation.Valid())
	assert.False(t, ChatAction("dancing").Valid())
	assert.False(t, ChatAction("").Valid())
}
