package cleaner

import (
	"context"
	"regexp"
	"strings"
)

// Provider category hints, normalized by the adapters.
const (
	HintPromotions = "promotions"
	HintSocial     = "social"
)

// UnknownSender is the fallback address and name when a From value cannot be parsed.
const UnknownSender = "unknown"

// Email is the canonical, provider-agnostic view of one message. Values are
// built once by a provider adapter and never mutated afterwards.
type Email struct {
	ID            string
	ThreadID      string
	SenderAddress string // lowercase, or UnknownSender
	SenderName    string // falls back to SenderAddress
	Subject       string
	Snippet       string
	Timestamp     string // raw provider representation; see parseMessageTime
	IsRead        bool
	CategoryHints []string
}

// HasHint reports whether the provider tagged the message with the given hint.
func (e Email) HasHint(hint string) bool {
	for _, h := range e.CategoryHints {
		if h == hint {
			return true
		}
	}
	return false
}

// Source streams normalized messages out of a mail provider.
type Source interface {
	// FetchEmails calls fn for each message, up to max. fn errors abort the fetch.
	FetchEmails(ctx context.Context, max int64, fn func(Email) error) error
}

var angleAddr = regexp.MustCompile(`<([^>]+)>`)

// ParseSender splits a From-style header into a lowercase address and a display
// name. Handles "Display Name <addr>" and bare addresses; anything else maps to
// UnknownSender for both fields. Never fails.
func ParseSender(from string) (addr, name string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return UnknownSender, UnknownSender
	}

	if m := angleAddr.FindStringSubmatch(from); m != nil {
		addr = strings.ToLower(m[1])
		name = strings.Trim(strings.TrimSpace(strings.Replace(from, "<"+m[1]+">", "", 1)), `"`)
		if name == "" {
			name = addr
		}
		return addr, name
	}

	if strings.Contains(from, "@") {
		addr = strings.ToLower(from)
		return addr, addr
	}

	return UnknownSender, UnknownSender
}
