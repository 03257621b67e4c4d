package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runixer/telebind/internal/archive"
	"github.com/runixer/telebind/internal/config"
	"github.com/runixer/telebind/internal/telegram"
)

// Services holds the client and, when configured, the message archive.
type Services struct {
	Client *telegram.Client
	// Sink is nil when no archive is configured.
	Sink archive.Sink
}

// NewClient starts a Bot API client from the telegram section of cfg.
func NewClient(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*telegram.Client, error) {
	opts := []telegram.Option{
		telegram.WithLogger(logger),
		telegram.WithTimeout(cfg.Telegram.GetTimeout()),
		telegram.WithAutoStatus(cfg.Telegram.AutoStatus),
		telegram.WithOffset(cfg.Telegram.Offset),
	}
	if cfg.Telegram.APIURL != "" {
		opts = append(opts, telegram.WithBaseURL(cfg.Telegram.APIURL))
	}
	return telegram.New(ctx, cfg.Telegram.Token, opts...)
}

// NewSink opens every archive sink enabled in cfg. It returns nil, nil when
// none is enabled.
func NewSink(ctx context.Context, logger *slog.Logger, cfg *config.Config) (archive.Sink, error) {
	var sinks archive.Multi

	if cfg.Archive.SQLitePath != "" {
		s, err := archive.NewSQLiteSink(logger, cfg.Archive.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		sinks = append(sinks, s)
	}
	if cfg.Archive.RedisAddr != "" {
		sinks = append(sinks, archive.NewRedisSink(ctx, logger, cfg.Archive.RedisAddr, cfg.Archive.RedisKey))
	}

	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

// SetupServices starts the client and opens the configured archive.
//
// The caller is responsible for calling Close when done.
func SetupServices(ctx context.Context, logger *slog.Logger, cfg *config.Config, withArchive bool) (*Services, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	client, err := NewClient(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	services := &Services{Client: client}

	if withArchive {
		services.Sink, err = NewSink(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
	}

	me := client.Me()
	logger.Info("services initialized", "bot_id", me.ID, "archive", services.Sink != nil)
	return services, nil
}

// Close releases the archive.
func (s *Services) Close() error {
	if s == nil || s.Sink == nil {
		return nil
	}
	return s.Sink.Close()
}
