package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/runixer/telebind/internal/telegram"
)

// pusher is the part of *redis.Client the sink needs.
type pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

// RedisSink appends one JSON Event per message to a Redis list, for workers
// that consume it with BLPOP.
type RedisSink struct {
	client pusher
	key    string
	logger *slog.Logger
}

// NewRedisSink connects to addr. An unreachable server is only logged; pushes
// fail until it comes up.
func NewRedisSink(ctx context.Context, logger *slog.Logger, addr, key string) *RedisSink {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed", "addr", addr, "error", err)
	} else {
		logger.Info("redis archive ready", "addr", addr, "key", key)
	}
	return &RedisSink{client: client, key: key, logger: logger}
}

func (s *RedisSink) Store(ctx context.Context, msgs []telegram.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(NewEvent(msg))
		if err != nil {
			return fmt.Errorf("encode event for message %d: %w", msg.MessageID, err)
		}
		values = append(values, string(data))
	}
	if err := s.client.RPush(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("redis enqueue: %w", err)
	}
	s.logger.Debug("queued messages", "count", len(values), "key", s.key)
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
