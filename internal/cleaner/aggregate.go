package cleaner

// SenderStats accumulates per-sender counters across one analysis pass. It is
// keyed by the normalized sender address and discarded at the end of a session.
type SenderStats struct {
	Address     string
	DisplayName string // last-seen name for the address

	Total  int
	Read   int
	Unread int

	// ReadRate is Read/Total, recomputed once aggregation is finished rather
	// than adjusted incrementally. Zero when Total is zero.
	ReadRate float64

	MaxMarketingScore       int
	IsProvidedAsPromotional bool

	// Oldest and Newest compare the raw timestamp representation lexically;
	// both providers store timestamps in a format where that is monotonic
	// per sender.
	Oldest string
	Newest string

	// Messages preserves arrival order and is owned exclusively by this record.
	Messages []Email
}

// Aggregate folds a sequence of emails into per-sender stats, scoring each
// message with the given ruleset along the way.
func Aggregate(emails []Email, rules *Ruleset) map[string]*SenderStats {
	stats := make(map[string]*SenderStats)

	for _, e := range emails {
		s := getOrCreate(stats, e.SenderAddress)
		v := rules.Classify(e)

		s.Total++
		s.DisplayName = e.SenderName
		s.Messages = append(s.Messages, e)
		if v.Score > s.MaxMarketingScore {
			s.MaxMarketingScore = v.Score
		}
		if e.HasHint(HintPromotions) {
			s.IsProvidedAsPromotional = true
		}
		if e.IsRead {
			s.Read++
		} else {
			s.Unread++
		}
		if e.Timestamp != "" {
			if s.Oldest == "" || e.Timestamp < s.Oldest {
				s.Oldest = e.Timestamp
			}
			if s.Newest == "" || e.Timestamp > s.Newest {
				s.Newest = e.Timestamp
			}
		}
	}

	for _, s := range stats {
		if s.Total > 0 {
			s.ReadRate = float64(s.Read) / float64(s.Total)
		}
	}

	return stats
}

func getOrCreate(stats map[string]*SenderStats, address string) *SenderStats {
	if s, ok := stats[address]; ok {
		return s
	}
	s := &SenderStats{Address: address}
	stats[address] = s
	return s
}
