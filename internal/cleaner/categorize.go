package cleaner

import (
	"sort"
	"strings"
	"time"
)

// Category keys, in display order.
const (
	CategoryPromotional  = "promotional"
	CategoryMarketing    = "marketing"
	CategoryNeverOpened  = "never_opened"
	CategoryRarelyOpened = "rarely_opened"
	CategoryOldUnread    = "old_unread"
	CategoryBulkSenders  = "bulk_senders"
)

// CategoryKeys returns the fixed display order of the category buckets.
func CategoryKeys() []string {
	return []string{
		CategoryPromotional,
		CategoryMarketing,
		CategoryNeverOpened,
		CategoryRarelyOpened,
		CategoryOldUnread,
		CategoryBulkSenders,
	}
}

// Membership thresholds.
const (
	neverOpenedMinTotal  = 5
	rarelyOpenedMinTotal = 3
	rarelyOpenedMaxRate  = 0.2
	bulkSenderMinTotal   = 20
	oldUnreadAge         = 30 * 24 * time.Hour
)

// Member is one sender's entry in a category. For old_unread, Stats is a
// derived record scoped to the qualifying messages only.
type Member struct {
	Address string
	Stats   *SenderStats
}

// Category is a named, non-exclusive cleanup bucket. Categories are views,
// rebuilt from scratch on every pass.
type Category struct {
	Key               string
	Title             string
	Description       string
	Members           []Member
	TotalMessageCount int
}

func newCategories() map[string]*Category {
	return map[string]*Category{
		CategoryPromotional: {
			Key:         CategoryPromotional,
			Title:       "PROMOTIONS (provider category)",
			Description: "Emails your provider identified as promotional",
		},
		CategoryMarketing: {
			Key:         CategoryMarketing,
			Title:       "MARKETING & NEWSLETTERS",
			Description: "Emails with marketing patterns (unsubscribe links, etc.)",
		},
		CategoryNeverOpened: {
			Key:         CategoryNeverOpened,
			Title:       "NEVER OPENED (5+ emails)",
			Description: "Senders with 5+ emails you've never opened",
		},
		CategoryRarelyOpened: {
			Key:         CategoryRarelyOpened,
			Title:       "RARELY OPENED (<20% read rate, 3+ emails)",
			Description: "Senders you almost never read",
		},
		CategoryOldUnread: {
			Key:         CategoryOldUnread,
			Title:       "OLD UNREAD (30+ days)",
			Description: "Unread emails older than 30 days",
		},
		CategoryBulkSenders: {
			Key:         CategoryBulkSenders,
			Title:       "BULK SENDERS (20+ emails)",
			Description: "Senders flooding your inbox",
		},
	}
}

// Categorize evaluates the fixed rule table over the sender stats and returns
// the category buckets. A sender may land in several buckets; never_opened
// and rarely_opened are mutually exclusive, promotional suppresses marketing.
func Categorize(stats map[string]*SenderStats, now time.Time) map[string]*Category {
	cats := newCategories()
	cutoff := now.Add(-oldUnreadAge)

	// Deterministic member insertion order so the stable sort's tie-breaking
	// does not depend on map iteration.
	addrs := make([]string, 0, len(stats))
	for addr := range stats {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		s := stats[addr]

		if s.IsProvidedAsPromotional {
			cats[CategoryPromotional].add(addr, s)
		} else if s.MaxMarketingScore >= MarketingThreshold {
			cats[CategoryMarketing].add(addr, s)
		}

		if s.Total >= neverOpenedMinTotal && s.Read == 0 {
			cats[CategoryNeverOpened].add(addr, s)
		} else if s.Total >= rarelyOpenedMinTotal && s.ReadRate > 0 && s.ReadRate < rarelyOpenedMaxRate {
			cats[CategoryRarelyOpened].add(addr, s)
		}

		if s.Total >= bulkSenderMinTotal {
			cats[CategoryBulkSenders].add(addr, s)
		}

		var old []Email
		for _, e := range s.Messages {
			if e.IsRead {
				continue
			}
			if t, ok := parseMessageTime(e.Timestamp); ok && t.Before(cutoff) {
				old = append(old, e)
			}
		}
		if len(old) > 0 {
			scoped := *s
			scoped.Messages = old
			scoped.Total = len(old)
			cats[CategoryOldUnread].add(addr, &scoped)
		}
	}

	for _, c := range cats {
		members := c.Members
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Stats.Total > members[j].Stats.Total
		})
	}

	return cats
}

func (c *Category) add(addr string, s *SenderStats) {
	c.Members = append(c.Members, Member{Address: addr, Stats: s})
	c.TotalMessageCount += s.Total
}

// messageTimeLayouts are attempted in order. Gmail carries RFC 5322 Date
// headers in a few shapes; Outlook timestamps are RFC 3339.
var messageTimeLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339,
}

// parseMessageTime parses a raw message timestamp. It never fails hard: a
// value no layout accepts reports ok=false and the message is treated as not
// old.
func parseMessageTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	// Drop trailing comments like "(UTC)" that some Date headers carry.
	if i := strings.Index(raw, " ("); i > 0 {
		raw = raw[:i]
	}
	for _, layout := range messageTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
