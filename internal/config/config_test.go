package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "gmail", cfg.Provider)
	require.EqualValues(t, 5000, cfg.ScanLimit)
	require.Equal(t, 100, cfg.Batch.PauseEvery)
	require.Equal(t, time.Second, cfg.Batch.PauseDuration())
	require.NotContains(t, cfg.CredentialsDir, "~")
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "gmail", cfg.Provider)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: outlook
scan_limit: 1000
batch:
  pause_every: 20
  pause: 250ms
  progress_every: 10
rules:
  keywords: [clearance]
events:
  nats_url: nats://localhost:4222
report:
  listen: 127.0.0.1:8787
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "outlook", cfg.Provider)
	require.EqualValues(t, 1000, cfg.ScanLimit)
	require.Equal(t, 250*time.Millisecond, cfg.Batch.PauseDuration())
	require.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
	require.Equal(t, "127.0.0.1:8787", cfg.Report.Listen)

	rules := cfg.Ruleset()
	require.Equal(t, []string{"clearance"}, rules.Keywords)
	require.NotEmpty(t, rules.SenderPatterns, "unset lists keep defaults")
}

func TestScanPresets(t *testing.T) {
	for preset, want := range map[string]int64{
		"quick":  1000,
		"normal": 5000,
		"deep":   10000,
		"full":   25000,
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan_preset: "+preset+"\nscan_limit: 42\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.EqualValues(t, want, cfg.ScanLimit, "preset %q overrides scan_limit", preset)
	}
}

func TestScanPresetCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan_preset: Deep\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 10000, cfg.ScanLimit)
}

func TestUnknownScanPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan_preset: bottomless\n"), 0644))

	_, err := Load(path)
	require.ErrorContains(t, err, "unknown scan preset")
}

func TestBatchPauseDurationFallsBack(t *testing.T) {
	require.Equal(t, time.Second, BatchConfig{Pause: "garbage"}.PauseDuration())
	require.Equal(t, time.Second, BatchConfig{Pause: "-5s"}.PauseDuration())
}

func TestNATSURLFromEnv(t *testing.T) {
	t.Setenv("MAILSWEEP_NATS_URL", "nats://elsewhere:4222")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "nats://elsewhere:4222", cfg.Events.NATSURL)
}
