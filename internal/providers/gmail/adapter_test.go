package gmail

import (
	"testing"

	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

func TestNormalize(t *testing.T) {
	msg := &gmailv1.Message{
		Id:       "abc",
		ThreadId: "thr",
		Snippet:  "Big sale, unsubscribe anytime",
		LabelIds: []string{"INBOX", "UNREAD", "CATEGORY_PROMOTIONS"},
		Payload: &gmailv1.MessagePart{
			Headers: []*gmailv1.MessagePartHeader{
				{Name: "From", Value: "Shein <Newsletter@Shein.com>"},
				{Name: "subject", Value: "Exclusive Offer"},
				{Name: "Date", Value: "Mon, 1 Jan 2024 10:00:00 +0000"},
			},
		},
	}

	e := normalize(msg)
	if e.ID != "abc" || e.ThreadID != "thr" {
		t.Fatalf("ids: %+v", e)
	}
	if e.SenderAddress != "newsletter@shein.com" || e.SenderName != "Shein" {
		t.Fatalf("sender: %q / %q", e.SenderAddress, e.SenderName)
	}
	if e.Subject != "Exclusive Offer" {
		t.Fatalf("subject lookup should be case-insensitive, got %q", e.Subject)
	}
	if e.IsRead {
		t.Fatal("UNREAD label should mark the message unread")
	}
	if !e.HasHint(cleaner.HintPromotions) {
		t.Fatalf("hints = %v", e.CategoryHints)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	e := normalize(&gmailv1.Message{Id: "x"})
	if e.SenderAddress != cleaner.UnknownSender || e.SenderName != cleaner.UnknownSender {
		t.Fatalf("sender fallback: %+v", e)
	}
	if e.Subject != "" || e.Timestamp != "" {
		t.Fatalf("missing headers should stay empty: %+v", e)
	}
	if !e.IsRead {
		t.Fatal("no UNREAD label means read")
	}
	if len(e.CategoryHints) != 0 {
		t.Fatalf("hints = %v", e.CategoryHints)
	}
}
