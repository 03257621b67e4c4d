package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/runixer/telebind/internal/telegram"
	"github.com/runixer/telebind/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	batches [][]telegram.Message
	pending []telegram.Message
	polls   int
	err     error
}

func (f *fakeSource) Poll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.err != nil {
		return f.err
	}
	if len(f.batches) > 0 {
		f.pending = append(f.pending, f.batches[0]...)
		f.batches = f.batches[1:]
	}
	return nil
}

func (f *fakeSource) DrainLog() []telegram.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}

type memorySink struct {
	mu     sync.Mutex
	stored []telegram.Message
	err    error
	calls  int
}

func (m *memorySink) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memorySink) Store(ctx context.Context, msgs []telegram.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, msgs...)
	return nil
}

func (m *memorySink) Close() error { return nil }

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

func msg(id int) telegram.Message {
	return testutil.TextMessage(1, id, "m")
}

func TestPollerRunOnce(t *testing.T) {
	src := &fakeSource{batches: [][]telegram.Message{{msg(1), msg(2)}}}
	sink := &memorySink{}
	var seen []int
	p := &Poller{
		Source:    src,
		Sink:      sink,
		Interval:  time.Millisecond,
		Logger:    testutil.TestLogger(),
		OnMessage: func(m telegram.Message) { seen = append(seen, m.MessageID) },
	}

	assert.Equal(t, 2, p.RunOnce(context.Background()))
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, sink.count())

	assert.Equal(t, 0, p.RunOnce(context.Background()))
	assert.Equal(t, 2, sink.count())
}

func TestPollerRunOnceFailures(t *testing.T) {
	t.Run("poll error", func(t *testing.T) {
		src := &fakeSource{err: telegram.ErrTransport}
		sink := &memorySink{}
		logs := testutil.NewLogCapture()
		p := &Poller{Source: src, Sink: sink, Interval: time.Millisecond, Logger: logs.Logger()}

		assert.Equal(t, 0, p.RunOnce(context.Background()))
		assert.Zero(t, sink.count())
		assert.Len(t, logs.Find("warn", "poll failed"), 1)
		assert.False(t, logs.HasError())
	})

	t.Run("sink error", func(t *testing.T) {
		src := &fakeSource{batches: [][]telegram.Message{{msg(1)}}}
		logs := testutil.NewLogCapture()
		p := &Poller{Source: src, Sink: &memorySink{err: errors.New("down")}, Interval: time.Millisecond, Logger: logs.Logger()}

		assert.Equal(t, 1, p.RunOnce(context.Background()))
		assert.Empty(t, src.DrainLog())
		assert.Len(t, logs.FindByField("count", 1), 1)
		assert.True(t, logs.HasError())
		assert.Equal(t, 1, p.Pending())
	})

	t.Run("no sink", func(t *testing.T) {
		src := &fakeSource{batches: [][]telegram.Message{{msg(1)}}}
		p := &Poller{Source: src, Interval: time.Millisecond, Logger: testutil.TestLogger()}
		assert.Equal(t, 1, p.RunOnce(context.Background()))
	})
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	src := &fakeSource{batches: [][]telegram.Message{{msg(1)}, {msg(2)}, {msg(3)}}}
	sink := &memorySink{}
	p := &Poller{Source: src, Sink: sink, Interval: time.Millisecond, Logger: testutil.TestLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return sink.count() == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerRunOnceCancelled(t *testing.T) {
	logs := testutil.NewLogCapture()
	p := &Poller{Source: &fakeSource{err: context.Canceled}, Interval: time.Millisecond, Logger: logs.Logger()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, p.RunOnce(ctx))
	assert.Empty(t, logs.Find("warn", "poll failed"))
}

func TestPollerKeepsRejectedBatch(t *testing.T) {
	src := &fakeSource{batches: [][]telegram.Message{{msg(1), msg(2)}, {msg(3)}, {}}}
	sink := &memorySink{err: errors.New("disk full")}
	var seen []int
	p := &Poller{
		Source:    src,
		Sink:      sink,
		Interval:  time.Millisecond,
		Logger:    testutil.TestLogger(),
		OnMessage: func(m telegram.Message) { seen = append(seen, m.MessageID) },
	}

	assert.Equal(t, 2, p.RunOnce(context.Background()))
	assert.Equal(t, 2, p.Pending())
	assert.Zero(t, sink.count())

	sink.fail(nil)
	assert.Equal(t, 1, p.RunOnce(context.Background()))
	assert.Zero(t, p.Pending())

	sink.mu.Lock()
	var ids []int
	for _, m := range sink.stored {
		ids = append(ids, m.MessageID)
	}
	calls := sink.calls
	sink.mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1, 2, 3}, seen)

	assert.Equal(t, 0, p.RunOnce(context.Background()))
	assert.Equal(t, 2, sink.calls)
}

func TestPollerRetriesAfterPollFailure(t *testing.T) {
	src := &fakeSource{batches: [][]telegram.Message{{msg(1)}}}
	sink := &memorySink{err: errors.New("down")}
	p := &Poller{Source: src, Sink: sink, Interval: time.Millisecond, Logger: testutil.TestLogger()}

	p.RunOnce(context.Background())
	require.Equal(t, 1, p.Pending())

	src.mu.Lock()
	src.err = telegram.ErrTransport
	src.mu.Unlock()
	sink.fail(nil)
	assert.Equal(t, 0, p.RunOnce(context.Background()))
	assert.Equal(t, 1, p.Pending())

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	p.RunOnce(context.Background())
	assert.Zero(t, p.Pending())
	assert.Equal(t, 1, sink.count())
}
