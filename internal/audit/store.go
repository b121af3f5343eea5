// Package audit keeps a local record of what mailsweep did to a mailbox:
// one row per analysis run and one row per attempted mutation. Mutation
// events also land in a transactional outbox so the events package can
// publish them without losing anything across restarts.
package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the per-user audit database.
type Store struct {
	DB *sql.DB
}

// MutationEvent is one attempted trash/delete against the provider.
type MutationEvent struct {
	EventID   string `json:"event_id"`
	RunID     string `json:"run_id"`
	Timestamp int64  `json:"ts"`
	Provider  string `json:"provider"`
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
	Action    string `json:"action"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// OutboxMessage is a pending event waiting for the publisher.
type OutboxMessage struct {
	ID      int64
	Subject string
	Payload []byte
	MsgID   string
}

// Open opens or creates the audit database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{DB: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// RecordRun registers an analysis run and its headline numbers.
func (s *Store) RecordRun(ctx context.Context, runID, provider string, emails, senders int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO runs (run_id, provider, started_at, emails, senders)
		VALUES (?, ?, ?, ?, ?)
	`, runID, provider, time.Now().Unix(), emails, senders)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// AppendMutation writes a mutation event and its outbox entry in one
// transaction. Duplicate event IDs are ignored.
func (s *Store) AppendMutation(ctx context.Context, ev MutationEvent, natsSubject, eventType string) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msgID := fmt.Sprintf("%s|%s|%s", eventType, ev.RunID, ev.MessageID)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO mutation_events
		(event_id, run_id, ts, message_id, sender, action, ok, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.EventID, ev.RunID, ev.Timestamp, ev.MessageID, ev.Sender, ev.Action, ev.OK, ev.Error)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert mutation event: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO outbox (ts, subject, event_type, payload, msg_id, next_attempt_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, time.Now().Unix(), natsSubject, eventType, payload, msgID, time.Now().Unix())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert outbox entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RunOutcomes returns the recorded outcomes for one run, oldest first.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]MutationEvent, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT event_id, run_id, ts, message_id, sender, action, ok, error
		FROM mutation_events
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutation events: %w", err)
	}
	defer rows.Close()

	var events []MutationEvent
	for rows.Next() {
		var ev MutationEvent
		if err := rows.Scan(&ev.EventID, &ev.RunID, &ev.Timestamp, &ev.MessageID, &ev.Sender, &ev.Action, &ev.OK, &ev.Error); err != nil {
			return nil, fmt.Errorf("failed to scan mutation event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DequeueOutbox fetches unpublished messages that are due.
func (s *Store) DequeueOutbox(ctx context.Context, limit int) ([]OutboxMessage, error) {
	now := time.Now().Unix()

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, subject, payload, msg_id
		FROM outbox
		WHERE published_at IS NULL
		  AND next_attempt_at <= ?
		ORDER BY id
		LIMIT ?
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var messages []OutboxMessage
	for rows.Next() {
		var msg OutboxMessage
		if err := rows.Scan(&msg.ID, &msg.Subject, &msg.Payload, &msg.MsgID); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkPublished marks an outbox message as published.
func (s *Store) MarkPublished(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE outbox SET published_at = ? WHERE id = ?
	`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark published: %w", err)
	}
	return nil
}

// MarkOutboxRetry bumps the retry count and pushes the next attempt out.
func (s *Store) MarkOutboxRetry(ctx context.Context, id int64, backoff time.Duration) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE outbox
		SET retries = retries + 1,
		    next_attempt_at = ?
		WHERE id = ?
	`, time.Now().Add(backoff).Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark retry: %w", err)
	}
	return nil
}
