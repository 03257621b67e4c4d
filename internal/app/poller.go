package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/runixer/telebind/internal/archive"
	"github.com/runixer/telebind/internal/telegram"
)

// UpdateSource is the part of *telegram.Client the poll loop drives.
type UpdateSource interface {
	Poll(ctx context.Context) error
	DrainLog() []telegram.Message
}

// maxPendingMessages bounds the batch kept for retry while the sink fails.
const maxPendingMessages = 10000

// Poller repeatedly polls for updates, hands each new message to OnMessage
// and stores the batch in Sink. A batch the sink rejects is kept and stored
// again with the next round, so sinks must tolerate replays.
type Poller struct {
	Source   UpdateSource
	Sink     archive.Sink
	Interval time.Duration
	Logger   *slog.Logger
	// OnMessage is optional.
	OnMessage func(telegram.Message)

	pending []telegram.Message
}

// Run polls until ctx is cancelled. Poll and sink failures are logged and the
// loop carries on with the next round.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		p.RunOnce(ctx)
		select {
		case <-ctx.Done():
			if n := len(p.pending); n > 0 {
				p.Logger.Warn("poller stopped with unarchived messages", "count", n)
			} else {
				p.Logger.Info("poller stopped")
			}
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single poll and store round and returns the number of
// new messages received.
func (p *Poller) RunOnce(ctx context.Context) int {
	if err := p.Source.Poll(ctx); err != nil {
		if ctx.Err() == nil {
			p.Logger.Warn("poll failed", "error", err)
		}
		return 0
	}

	msgs := p.Source.DrainLog()
	if p.OnMessage != nil {
		for _, msg := range msgs {
			p.OnMessage(msg)
		}
	}
	p.store(ctx, msgs)
	return len(msgs)
}

// Pending returns the number of messages waiting to be archived.
func (p *Poller) Pending() int {
	return len(p.pending)
}

func (p *Poller) store(ctx context.Context, msgs []telegram.Message) {
	if p.Sink == nil {
		return
	}
	batch := append(p.pending, msgs...)
	p.pending = nil
	if len(batch) == 0 {
		return
	}

	if err := p.Sink.Store(ctx, batch); err != nil {
		if len(batch) > maxPendingMessages {
			p.Logger.Warn("dropping oldest unarchived messages", "count", len(batch)-maxPendingMessages)
			batch = batch[len(batch)-maxPendingMessages:]
		}
		p.pending = batch
		p.Logger.Error("failed to archive messages", "count", len(batch), "error", err)
	}
}
