// Package report exposes the triage results over HTTP as JSON, so the scan
// can be inspected from a browser or piped through jq while the interactive
// session is open.
package report

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

// Snapshot is the immutable result of one mailbox scan.
type Snapshot struct {
	Provider    string         `json:"provider"`
	GeneratedAt time.Time      `json:"generated_at"`
	EmailCount  int            `json:"email_count"`
	SenderCount int            `json:"sender_count"`
	Categories  []CategoryView `json:"categories"`
}

// CategoryView is the wire form of one category.
type CategoryView struct {
	Key          string       `json:"key"`
	Title        string       `json:"title"`
	SenderCount  int          `json:"sender_count"`
	MessageCount int          `json:"message_count"`
	Senders      []SenderView `json:"senders"`
}

// SenderView summarizes one sender within a category.
type SenderView struct {
	Address  string  `json:"address"`
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Read     int     `json:"read"`
	ReadRate float64 `json:"read_rate"`
	Score    int     `json:"score"`
}

// NewSnapshot builds the report payload from a finished scan.
func NewSnapshot(provider string, emailCount int, stats map[string]*cleaner.SenderStats, categories map[string]*cleaner.Category) Snapshot {
	snap := Snapshot{
		Provider:    provider,
		GeneratedAt: time.Now().UTC(),
		EmailCount:  emailCount,
		SenderCount: len(stats),
	}

	for _, key := range cleaner.CategoryKeys() {
		cat := categories[key]
		if cat == nil {
			continue
		}
		view := CategoryView{
			Key:          cat.Key,
			Title:        cat.Title,
			SenderCount:  len(cat.Members),
			MessageCount: cat.TotalMessageCount,
		}
		for _, m := range cat.Members {
			view.Senders = append(view.Senders, SenderView{
				Address:  m.Address,
				Name:     m.Stats.DisplayName,
				Total:    m.Stats.Total,
				Read:     m.Stats.Read,
				ReadRate: m.Stats.ReadRate,
				Score:    m.Stats.MaxMarketingScore,
			})
		}
		snap.Categories = append(snap.Categories, view)
	}
	return snap
}

// TopSenders returns the n busiest senders across the whole scan.
func TopSenders(stats map[string]*cleaner.SenderStats, n int) []SenderView {
	views := make([]SenderView, 0, len(stats))
	for addr, s := range stats {
		views = append(views, SenderView{
			Address:  addr,
			Name:     s.DisplayName,
			Total:    s.Total,
			Read:     s.Read,
			ReadRate: s.ReadRate,
			Score:    s.MaxMarketingScore,
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Total != views[j].Total {
			return views[i].Total > views[j].Total
		}
		return views[i].Address < views[j].Address
	})
	if len(views) > n {
		views = views[:n]
	}
	return views
}

// NewRouter builds the gin router serving the snapshot.
func NewRouter(snap Snapshot) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/report", func(c *gin.Context) {
		c.JSON(http.StatusOK, snap)
	})

	return r
}

// Serve runs the report endpoint until the process exits. Meant to be started
// on its own goroutine; errors are returned, not fatal.
func Serve(addr string, snap Snapshot) error {
	return NewRouter(snap).Run(addr)
}
