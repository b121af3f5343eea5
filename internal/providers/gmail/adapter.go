// Package gmail adapts the Gmail API to mailsweep's Source and Remover
// contracts.
package gmail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

// Adapter implements cleaner.Source and cleaner.Remover for Gmail.
type Adapter struct {
	svc  *gmailv1.Service
	user string
}

// New creates a Gmail adapter, running the OAuth flow if no cached token is
// available under configDir.
func New(ctx context.Context, configDir string) (*Adapter, error) {
	svc, err := newService(ctx, configDir)
	if err != nil {
		return nil, err
	}
	return &Adapter{svc: svc, user: "me"}, nil
}

const (
	listPageSize = 500
	pageDelay    = 100 * time.Millisecond
)

// errFetchLimit stops pagination once enough messages were seen.
var errFetchLimit = errors.New("fetch limit reached")

// FetchEmails lists message metadata, newest first, and hands each normalized
// message to fn. Messages whose metadata cannot be fetched are skipped.
func (a *Adapter) FetchEmails(ctx context.Context, max int64, fn func(cleaner.Email) error) error {
	var fetched int64
	start := time.Now()

	call := a.svc.Users.Messages.List(a.user).IncludeSpamTrash(false).MaxResults(listPageSize)
	err := call.Pages(ctx, func(page *gmailv1.ListMessagesResponse) error {
		for _, m := range page.Messages {
			if fetched >= max {
				return errFetchLimit
			}
			msg, err := a.svc.Users.Messages.Get(a.user, m.Id).
				Format("metadata").
				MetadataHeaders("From", "Subject", "Date").
				Context(ctx).Do()
			if err != nil {
				continue
			}
			if err := fn(normalize(msg)); err != nil {
				return err
			}
			fetched++
			if fetched%200 == 0 {
				log.Printf("fetched %d messages (%.0fs)", fetched, time.Since(start).Seconds())
			}
		}
		// Small delay between pages to stay under the quota.
		time.Sleep(pageDelay)
		return nil
	})
	if err != nil && !errors.Is(err, errFetchLimit) {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	log.Printf("fetched %d messages in %.0fs", fetched, time.Since(start).Seconds())
	return nil
}

// Trash moves a message to the Gmail trash folder.
func (a *Adapter) Trash(ctx context.Context, id string) error {
	if _, err := a.svc.Users.Messages.Trash(a.user, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("trash message %s: %w", id, err)
	}
	return nil
}

// Delete permanently removes a message.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := a.svc.Users.Messages.Delete(a.user, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// normalize converts a Gmail message to the canonical Email. Missing headers
// degrade to empty strings; unparsable senders to "unknown".
func normalize(m *gmailv1.Message) cleaner.Email {
	var from, subject, date string
	if m.Payload != nil {
		from = header(m.Payload.Headers, "From")
		subject = header(m.Payload.Headers, "Subject")
		date = header(m.Payload.Headers, "Date")
	}
	addr, name := cleaner.ParseSender(from)

	return cleaner.Email{
		ID:            m.Id,
		ThreadID:      m.ThreadId,
		SenderAddress: addr,
		SenderName:    name,
		Subject:       subject,
		Snippet:       m.Snippet,
		Timestamp:     date,
		IsRead:        !hasLabel(m.LabelIds, "UNREAD"),
		CategoryHints: hints(m.LabelIds),
	}
}

func header(headers []*gmailv1.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// hints maps Gmail CATEGORY_* labels to provider-agnostic hints, e.g.
// CATEGORY_PROMOTIONS becomes "promotions".
func hints(labels []string) []string {
	var out []string
	for _, l := range labels {
		if strings.HasPrefix(l, "CATEGORY_") {
			out = append(out, strings.ToLower(strings.TrimPrefix(l, "CATEGORY_")))
		}
	}
	return out
}
