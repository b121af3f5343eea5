// Package events publishes cleanup events to NATS JetStream. Publishing is
// optional; when no NATS URL is configured the rest of mailsweep runs without
// it and outbox entries simply accumulate locally.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// StreamName holds every cleanup event.
	StreamName = "MAILSWEEP"

	// Event types carried on the stream.
	TypeTrashed = "email.trashed"
	TypeDeleted = "email.deleted"
)

// SubjectFor returns the stream subject for a mutation action ("trash" or
// "delete").
func SubjectFor(action string) string {
	return "mailsweep.cleanup." + action
}

// TypeFor maps a mutation action to its event type.
func TypeFor(action string) string {
	if action == "delete" {
		return TypeDeleted
	}
	return TypeTrashed
}

// Publisher wraps NATS JetStream for publishing cleanup events.
type Publisher struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// NewPublisher connects to NATS and sets up a JetStream context.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// EnsureStream creates the cleanup stream if it does not exist yet.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	streamInfo, err := p.js.StreamInfo(StreamName)
	if err == nil && streamInfo != nil {
		return nil
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{"mailsweep.>"},
		Storage:    nats.FileStorage,
		Retention:  nats.LimitsPolicy,
		Duplicates: 10 * time.Minute,
		MaxAge:     30 * 24 * time.Hour,
	})
	if err != nil {
		if err == nats.ErrStreamNameAlreadyInUse {
			return nil
		}
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// Publish publishes one event with msg-id deduplication.
func (p *Publisher) Publish(subject string, payload []byte, msgID string) error {
	_, err := p.js.Publish(subject, payload, nats.MsgId(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
