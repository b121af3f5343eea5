package cleaner

// Scoring policy. MarketingThreshold flips the boolean classification.
const (
	MarketingThreshold = 3

	scorePromotionsHint = 5
	scoreSocialHint     = 4
	scoreSenderPattern  = 2
	scoreKnownDomain    = 3
	scoreManyKeywords   = 4
	scoreSomeKeywords   = 2
	scoreUnsubscribe    = 3
)

// Ruleset holds the pattern lists the classifier matches against. The lists
// are data, not code, so callers can swap them out (see config.Rules).
type Ruleset struct {
	Keywords         []string
	SenderPatterns   []string
	MarketingDomains []string
	Threshold        int
}

// DefaultRuleset returns the built-in marketing indicators.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Keywords: []string{
			"unsubscribe", "opt-out", "opt out", "email preferences", "manage preferences",
			"view in browser", "view online", "click here", "limited time", "act now",
			"don't miss", "exclusive offer", "special offer", "discount", "sale",
			"free shipping", "order now", "buy now", "shop now", "deal", "promo",
			"newsletter", "weekly digest", "daily digest", "notification settings",
			"update your preferences", "manage subscriptions", "email settings",
		},
		SenderPatterns: []string{
			"noreply", "no-reply", "newsletter", "marketing", "promo", "offers",
			"deals", "news@", "info@", "hello@", "support@", "team@", "updates@",
			"notifications@", "alert@", "mailer", "campaign", "bulk", "mass",
		},
		MarketingDomains: []string{
			"linkedin.com", "facebookmail.com", "twitter.com", "pinterest.com",
			"quora.com", "medium.com", "substack.com", "mailchimp.com",
			"sendgrid.net", "amazonses.com", "constantcontact.com",
			"hubspot.com", "salesforce.com", "marketo.com", "pardot.com",
			"groupon.com", "retailmenot.com", "slickdeals.net",
			"wish.com", "aliexpress.com", "banggood.com", "shein.com",
			"spotify.com", "netflix.com", "hulu.com", "discord.com",
			"uber.com", "lyft.com", "doordash.com", "grubhub.com",
			"yelp.com", "tripadvisor.com", "booking.com", "expedia.com",
			"youtube.com", "tiktok.com", "instagram.com", "snapchat.com",
		},
		Threshold: MarketingThreshold,
	}
}
