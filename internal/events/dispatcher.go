package events

import (
	"context"
	"log"
	"time"

	"github.com/sweeper-dev/mailsweep/internal/audit"
)

// Sink is the publish side of the dispatcher; *Publisher satisfies it.
type Sink interface {
	Publish(subject string, payload []byte, msgID string) error
}

// Dispatcher drains the audit store's outbox into NATS. Failed publishes stay
// in the outbox with a backoff, so nothing is lost if the broker is down.
type Dispatcher struct {
	Store     *audit.Store
	Publisher Sink
}

const (
	dispatchBatchSize = 100
	retryBackoff      = 10 * time.Second
)

// Run loops until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := d.drain(ctx)
		if err != nil {
			log.Printf("Error dequeuing outbox: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if n == 0 {
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// drain publishes one batch of due outbox messages and returns how many it
// attempted. Publish failures schedule a retry and do not stop the batch.
func (d *Dispatcher) drain(ctx context.Context) (int, error) {
	messages, err := d.Store.DequeueOutbox(ctx, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	for _, msg := range messages {
		if err := d.Publisher.Publish(msg.Subject, msg.Payload, msg.MsgID); err != nil {
			log.Printf("Error publishing message %d: %v", msg.ID, err)
			_ = d.Store.MarkOutboxRetry(ctx, msg.ID, retryBackoff)
			continue
		}
		if err := d.Store.MarkPublished(ctx, msg.ID); err != nil {
			log.Printf("Error marking message %d as published: %v", msg.ID, err)
		}
	}
	return len(messages), nil
}
