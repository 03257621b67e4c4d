package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/runixer/telebind/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeMetrics(t *testing.T) {
	addr := freeAddr(t)
	logs := testutil.NewLogCapture()
	stop := serveMetrics(context.Background(), logs.Logger(), addr)

	var metrics string
	require.Eventually(t, func() bool {
		var err error
		metrics, err = testutil.ScrapeMetrics("http://" + addr + "/metrics")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, testutil.HasMetric(metrics, "telebind_build_info"))

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stop()
	_, err = testutil.ScrapeMetrics("http://" + addr + "/metrics")
	assert.Error(t, err)
	assert.Len(t, logs.FindByField("addr", addr), 1)
	assert.False(t, logs.HasError())
}

func TestMessagePrinter(t *testing.T) {
	msg := telegram.Message{
		MessageID: 3,
		From:      telegram.User{ID: 1, FirstName: "Ann"},
		Chat:      telegram.Chat{ID: 1, Type: telegram.ChatPrivate, FirstName: testutil.Ptr("Ann")},
		Content:   telegram.Text("hi"),
	}

	var text bytes.Buffer
	messagePrinter(&text, false)(msg)
	assert.Equal(t, "[unknown time] text message from Ann in private chat Ann: hi\n", text.String())

	var lines bytes.Buffer
	messagePrinter(&lines, true)(msg)
	assert.Contains(t, lines.String(), `"text":"hi"`)
	assert.Equal(t, 1, bytes.Count(lines.Bytes(), []byte{'\n'}))
}
