package cleaner

import "testing"

func TestAggregateCounts(t *testing.T) {
	rules := DefaultRuleset()
	emails := []Email{
		{ID: "1", SenderAddress: "a@x.com", SenderName: "A", IsRead: true, Timestamp: "2024-01-02T00:00:00Z"},
		{ID: "2", SenderAddress: "a@x.com", SenderName: "A", IsRead: false, Timestamp: "2024-01-01T00:00:00Z"},
		{ID: "3", SenderAddress: "a@x.com", SenderName: "Renamed A", IsRead: false, Timestamp: "2024-01-05T00:00:00Z"},
		{ID: "4", SenderAddress: "b@y.com", SenderName: "B", IsRead: false},
	}

	stats := Aggregate(emails, rules)
	if len(stats) != 2 {
		t.Fatalf("senders = %d, want 2", len(stats))
	}

	a := stats["a@x.com"]
	if a.Total != 3 || a.Read != 1 || a.Unread != 2 {
		t.Fatalf("a: total=%d read=%d unread=%d", a.Total, a.Read, a.Unread)
	}
	if a.Read+a.Unread != a.Total || a.Total != len(a.Messages) {
		t.Fatal("count invariant violated")
	}
	if a.ReadRate < 0.33 || a.ReadRate > 0.34 {
		t.Fatalf("read rate = %v", a.ReadRate)
	}
	if a.DisplayName != "Renamed A" {
		t.Fatalf("display name = %q, want last seen", a.DisplayName)
	}
	if a.Oldest != "2024-01-01T00:00:00Z" || a.Newest != "2024-01-05T00:00:00Z" {
		t.Fatalf("oldest=%q newest=%q", a.Oldest, a.Newest)
	}
	// Arrival order preserved.
	if a.Messages[0].ID != "1" || a.Messages[2].ID != "3" {
		t.Fatalf("message order: %v", []string{a.Messages[0].ID, a.Messages[1].ID, a.Messages[2].ID})
	}

	b := stats["b@y.com"]
	if b.ReadRate != 0 || b.Unread != 1 {
		t.Fatalf("b: rate=%v unread=%d", b.ReadRate, b.Unread)
	}
}

func TestAggregateMaxScoreAndPromotionalFlag(t *testing.T) {
	rules := DefaultRuleset()
	emails := []Email{
		{ID: "1", SenderAddress: "a@x.com", SenderName: "A", Subject: "hello"},
		{ID: "2", SenderAddress: "a@x.com", SenderName: "A", CategoryHints: []string{HintPromotions}},
		{ID: "3", SenderAddress: "a@x.com", SenderName: "A", Subject: "sale"},
	}
	stats := Aggregate(emails, rules)
	a := stats["a@x.com"]
	if a.MaxMarketingScore != 5 {
		t.Fatalf("max score = %d, want 5 from the promotions hint", a.MaxMarketingScore)
	}
	if !a.IsProvidedAsPromotional {
		t.Fatal("promotional flag should stick once any message carries the hint")
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil, DefaultRuleset())
	if len(stats) != 0 {
		t.Fatalf("want empty map, got %d entries", len(stats))
	}
}
