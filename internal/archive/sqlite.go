package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runixer/telebind/internal/telegram"
	_ "modernc.org/sqlite"
)

// SQLiteSink keeps every message in a local SQLite table, one row per
// (chat_id, message_id). Storing a message again replaces its row.
type SQLiteSink struct {
	db     *sql.DB
	logger *slog.Logger
	path   string
}

func NewSQLiteSink(logger *slog.Logger, path string) (*SQLiteSink, error) {
	originalPath := path
	if idx := strings.Index(path, "?"); idx != -1 {
		originalPath = path[:idx]
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// modernc.org/sqlite locks up under concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// The _journal_mode query parameter is ignored by modernc.org/sqlite.
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
		logger.Warn("failed to set WAL journal mode", "error", err)
	} else {
		logger.Info("SQLite journal mode set", "mode", journalMode, "path", originalPath)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		logger.Warn("failed to set busy timeout", "error", err)
	}

	s := &SQLiteSink{db: db, logger: logger, path: originalPath}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS messages (
		chat_id INTEGER NOT NULL,
		message_id INTEGER NOT NULL,
		sender_id INTEGER NOT NULL,
		date INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (chat_id, message_id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat_date ON messages(chat_id, date);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Store(ctx context.Context, msgs []telegram.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (chat_id, message_id, sender_id, date, content_type, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id, message_id) DO UPDATE SET
			sender_id = excluded.sender_id,
			date = excluded.date,
			content_type = excluded.content_type,
			payload = excluded.payload`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, msg := range msgs {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode message %d: %w", msg.MessageID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			msg.Chat.ID, msg.MessageID, msg.From.ID, msg.Date.Unix(), string(msg.Type()), string(payload),
		); err != nil {
			return fmt.Errorf("store message %d in chat %d: %w", msg.MessageID, msg.Chat.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("archived messages", "count", len(msgs), "path", s.path)
	return nil
}

// Recent returns up to limit stored messages of a chat, oldest first.
func (s *SQLiteSink) Recent(ctx context.Context, chatID int64, limit int) ([]telegram.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM (
			SELECT payload, date, message_id FROM messages
			WHERE chat_id = ?
			ORDER BY date DESC, message_id DESC
			LIMIT ?
		) ORDER BY date ASC, message_id ASC`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []telegram.Message
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var msg telegram.Message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, fmt.Errorf("decode archived message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// Count returns the number of stored messages.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
