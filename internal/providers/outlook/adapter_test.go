package outlook

import (
	"testing"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

func graphMessage(id, addr, name string) models.Messageable {
	m := models.NewMessage()
	m.SetId(StringPtr(id))
	m.SetConversationId(StringPtr("conv-" + id))
	m.SetSubject(StringPtr("Weekly deals"))
	m.SetBodyPreview(StringPtr("Save big this week"))

	from := models.NewRecipient()
	emailAddr := models.NewEmailAddress()
	if addr != "" {
		emailAddr.SetAddress(StringPtr(addr))
	}
	if name != "" {
		emailAddr.SetName(StringPtr(name))
	}
	from.SetEmailAddress(emailAddr)
	m.SetFrom(from)

	rcvd := time.Date(2024, 5, 27, 10, 0, 0, 0, time.UTC)
	m.SetReceivedDateTime(&rcvd)

	read := false
	m.SetIsRead(&read)
	m.SetCategories([]string{"Newsletters"})
	return m
}

func TestNormalize(t *testing.T) {
	e := normalize(graphMessage("m1", "News@Contoso.com", "Contoso News"))

	if e.ID != "m1" || e.ThreadID != "conv-m1" {
		t.Fatalf("ids: %+v", e)
	}
	if e.SenderAddress != "news@contoso.com" {
		t.Fatalf("address should be lowercased, got %q", e.SenderAddress)
	}
	if e.SenderName != "Contoso News" {
		t.Fatalf("name: %q", e.SenderName)
	}
	if e.Timestamp != "2024-05-27T10:00:00Z" {
		t.Fatalf("timestamp: %q", e.Timestamp)
	}
	if e.IsRead {
		t.Fatal("isRead=false should carry through")
	}
	if len(e.CategoryHints) != 1 || e.CategoryHints[0] != "Newsletters" {
		t.Fatalf("hints: %v", e.CategoryHints)
	}
}

func TestNormalizeNoSender(t *testing.T) {
	e := normalize(graphMessage("m2", "", ""))
	if e.SenderAddress != cleaner.UnknownSender || e.SenderName != cleaner.UnknownSender {
		t.Fatalf("sender fallback: %+v", e)
	}
}

func TestNormalizeNameFallsBackToAddress(t *testing.T) {
	e := normalize(graphMessage("m3", "bare@contoso.com", ""))
	if e.SenderName != "bare@contoso.com" {
		t.Fatalf("name should fall back to the address, got %q", e.SenderName)
	}
}
