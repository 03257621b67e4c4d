package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/runixer/telebind/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteSink {
	t.Helper()
	logger := testutil.TestLogger()
	sink, err := NewSQLiteSink(logger, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestNewSQLiteSink(t *testing.T) {
	sink := setupTestDB(t)
	assert.NotNil(t, sink.db)

	n, err := sink.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteSinkStoreAndRecent(t *testing.T) {
	sink := setupTestDB(t)
	ctx := context.Background()

	msgs := []telegram.Message{
		testutil.TextMessage(1, 1, "first"),
		testutil.TextMessage(1, 2, "second"),
		testutil.TextMessage(2, 1, "other chat"),
		testutil.TextMessage(1, 3, "third"),
	}
	require.NoError(t, sink.Store(ctx, msgs))

	n, err := sink.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	recent, err := sink.Recent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, msgs[1], recent[0])
	assert.Equal(t, msgs[3], recent[1])

	other, err := sink.Recent(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, telegram.Text("other chat"), other[0].Content)
	assert.Equal(t, testutil.TestUser(), other[0].From)
}

func TestSQLiteSinkUpsert(t *testing.T) {
	sink := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, sink.Store(ctx, []telegram.Message{testutil.TextMessage(1, 1, "draft")}))

	edited := testutil.TextMessage(1, 1, "")
	edited.Content = &telegram.Location{Longitude: 10, Latitude: 20}
	require.NoError(t, sink.Store(ctx, []telegram.Message{edited}))

	n, err := sink.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recent, err := sink.Recent(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, telegram.ContentLocation, recent[0].Type())

	var contentType string
	require.NoError(t, sink.db.QueryRow("SELECT content_type FROM messages WHERE chat_id = 1").Scan(&contentType))
	assert.Equal(t, "location", contentType)
}

func TestSQLiteSinkStoreEmpty(t *testing.T) {
	sink := setupTestDB(t)
	assert.NoError(t, sink.Store(context.Background(), nil))
}

func TestSQLiteSinkReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	logger := testutil.TestLogger()

	sink, err := NewSQLiteSink(logger, path)
	require.NoError(t, err)
	require.NoError(t, sink.Store(context.Background(), []telegram.Message{testutil.TextMessage(1, 1, "kept")}))
	require.NoError(t, sink.Close())

	reopened, err := NewSQLiteSink(logger, path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
