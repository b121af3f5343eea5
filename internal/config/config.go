// Package config loads mailsweep's YAML configuration. Every field has a
// sensible default; a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
)

// Default Outlook client ID (a public desktop-app registration); users can
// bring their own via the config file.
const defaultOutlookClientID = "9e5f94bc-e8a4-4e73-b8be-63364c29d753"

// Config holds all configuration for the application.
type Config struct {
	Provider string `yaml:"provider"`
	// ScanPreset, when set, overrides ScanLimit: quick, normal, deep or full.
	ScanPreset      string       `yaml:"scan_preset"`
	ScanLimit       int64        `yaml:"scan_limit"`
	CredentialsDir  string       `yaml:"credentials_dir"`
	OutlookClientID string       `yaml:"outlook_client_id"`
	Batch           BatchConfig  `yaml:"batch"`
	Rules           RulesConfig  `yaml:"rules"`
	Audit           AuditConfig  `yaml:"audit"`
	Events          EventsConfig `yaml:"events"`
	Report          ReportConfig `yaml:"report"`
}

// BatchConfig paces the mutation executor.
type BatchConfig struct {
	PauseEvery    int    `yaml:"pause_every"`
	Pause         string `yaml:"pause"` // duration string, e.g. "1s"
	ProgressEvery int    `yaml:"progress_every"`
}

// PauseDuration parses the pause setting, falling back to one second.
func (b BatchConfig) PauseDuration() time.Duration {
	d, err := time.ParseDuration(b.Pause)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// RulesConfig optionally replaces the built-in classifier lists. Empty lists
// keep the defaults.
type RulesConfig struct {
	Keywords         []string `yaml:"keywords"`
	SenderPatterns   []string `yaml:"sender_patterns"`
	MarketingDomains []string `yaml:"marketing_domains"`
}

// AuditConfig locates the local audit database.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig configures the optional NATS publisher. Empty URL disables it.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

// ReportConfig configures the optional HTTP report endpoint. Empty listen
// address disables it.
type ReportConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads the config at path, or just the defaults when path is empty or
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if url := os.Getenv("MAILSWEEP_NATS_URL"); url != "" {
		cfg.Events.NATSURL = url
	}

	if cfg.ScanPreset != "" {
		limit, ok := PresetLimit(cfg.ScanPreset)
		if !ok {
			return nil, fmt.Errorf("unknown scan preset %q (want quick, normal, deep or full)", cfg.ScanPreset)
		}
		cfg.ScanLimit = limit
	}

	cfg.CredentialsDir = expandHome(cfg.CredentialsDir)
	cfg.Audit.Path = expandHome(cfg.Audit.Path)
	return cfg, nil
}

// scanPresets are shorthand scan depths.
var scanPresets = map[string]int64{
	"quick":  1000,
	"normal": 5000,
	"deep":   10000,
	"full":   25000,
}

// PresetLimit resolves a scan preset name to its message limit.
func PresetLimit(name string) (int64, bool) {
	limit, ok := scanPresets[strings.ToLower(name)]
	return limit, ok
}

func defaults() *Config {
	return &Config{
		Provider:        "gmail",
		ScanLimit:       5000,
		CredentialsDir:  "~/.config/mailsweep",
		OutlookClientID: defaultOutlookClientID,
		Batch: BatchConfig{
			PauseEvery:    100,
			Pause:         "1s",
			ProgressEvery: 50,
		},
		Audit: AuditConfig{
			Path: "~/.local/share/mailsweep/audit.db",
		},
	}
}

// Ruleset builds the classifier ruleset, applying any configured overrides on
// top of the defaults.
func (c *Config) Ruleset() *cleaner.Ruleset {
	rules := cleaner.DefaultRuleset()
	if len(c.Rules.Keywords) > 0 {
		rules.Keywords = c.Rules.Keywords
	}
	if len(c.Rules.SenderPatterns) > 0 {
		rules.SenderPatterns = c.Rules.SenderPatterns
	}
	if len(c.Rules.MarketingDomains) > 0 {
		rules.MarketingDomains = c.Rules.MarketingDomains
	}
	return rules
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
