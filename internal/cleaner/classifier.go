package cleaner

import (
	"fmt"
	"strings"
)

// Verdict is the classifier's output for one message. Reasons record which
// rules fired, for explainability.
type Verdict struct {
	IsMarketing bool
	Score       int
	Reasons     []string
}

// Classify scores a single message for marketing likelihood. It is pure: the
// same input always yields the same verdict.
//
// Provider hints short-circuit everything else; otherwise sender patterns,
// known domains, keyword density and the "unsubscribe" marker accumulate.
func (r *Ruleset) Classify(e Email) Verdict {
	if e.HasHint(HintPromotions) {
		return r.verdict(scorePromotionsHint, []string{"provider marked as promotions"})
	}
	if e.HasHint(HintSocial) {
		return r.verdict(scoreSocialHint, []string{"provider marked as social"})
	}

	addr := e.SenderAddress
	name := strings.ToLower(e.SenderName)

	score := 0
	var reasons []string

	for _, pattern := range r.SenderPatterns {
		if strings.Contains(addr, pattern) || strings.Contains(name, pattern) {
			score += scoreSenderPattern
			reasons = append(reasons, "sender pattern: "+pattern)
			break
		}
	}

	for _, domain := range r.MarketingDomains {
		if strings.Contains(addr, domain) {
			score += scoreKnownDomain
			reasons = append(reasons, "known marketing domain: "+domain)
			break
		}
	}

	text := strings.ToLower(e.Subject + " " + e.Snippet)

	matched := 0
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}
	switch {
	case matched >= 3:
		score += scoreManyKeywords
		reasons = append(reasons, fmt.Sprintf("%d marketing keywords", matched))
	case matched >= 1:
		score += scoreSomeKeywords
		reasons = append(reasons, fmt.Sprintf("%d marketing keyword(s)", matched))
	}

	// Cumulative with the keyword pass.
	if strings.Contains(text, "unsubscribe") {
		score += scoreUnsubscribe
		reasons = append(reasons, "contains 'unsubscribe'")
	}

	return r.verdict(score, reasons)
}

func (r *Ruleset) verdict(score int, reasons []string) Verdict {
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = MarketingThreshold
	}
	return Verdict{IsMarketing: score >= threshold, Score: score, Reasons: reasons}
}
