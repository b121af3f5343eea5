// mailsweep scans a mailbox, groups the noise by sender and category, and
// walks the user through trashing or deleting it in bulk. Every mutation is
// recorded in a local audit database and optionally published to NATS.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeper-dev/mailsweep/internal/audit"
	"github.com/sweeper-dev/mailsweep/internal/cleaner"
	"github.com/sweeper-dev/mailsweep/internal/cli"
	"github.com/sweeper-dev/mailsweep/internal/config"
	"github.com/sweeper-dev/mailsweep/internal/events"
	"github.com/sweeper-dev/mailsweep/internal/providers/gmail"
	"github.com/sweeper-dev/mailsweep/internal/providers/outlook"
	"github.com/sweeper-dev/mailsweep/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	provider := flag.String("provider", "", "mail provider: gmail or outlook (overrides config)")
	preset := flag.String("preset", "", "scan depth: quick, normal, deep or full (overrides config)")
	max := flag.Int64("max", 0, "max messages to scan (overrides config and preset)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *provider, *preset, *max); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, configPath, providerFlag, presetFlag string, maxFlag int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if presetFlag != "" {
		limit, ok := config.PresetLimit(presetFlag)
		if !ok {
			return fmt.Errorf("unknown scan preset %q (want quick, normal, deep or full)", presetFlag)
		}
		cfg.ScanLimit = limit
	}
	if maxFlag > 0 {
		cfg.ScanLimit = maxFlag
	}

	var (
		source  cleaner.Source
		remover cleaner.Remover
	)
	switch cfg.Provider {
	case "gmail":
		adapter, err := gmail.New(ctx, cfg.CredentialsDir)
		if err != nil {
			return fmt.Errorf("gmail setup: %w", err)
		}
		source, remover = adapter, adapter
	case "outlook":
		adapter, err := outlook.New(ctx, cfg.OutlookClientID, cfg.CredentialsDir)
		if err != nil {
			return fmt.Errorf("outlook setup: %w", err)
		}
		source, remover = adapter, adapter
	default:
		return fmt.Errorf("unknown provider %q (want gmail or outlook)", cfg.Provider)
	}

	log.Printf("Scanning up to %d messages from %s...", cfg.ScanLimit, cfg.Provider)
	var emails []cleaner.Email
	err = source.FetchEmails(ctx, cfg.ScanLimit, func(e cleaner.Email) error {
		emails = append(emails, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("fetch emails: %w", err)
	}

	stats := cleaner.Aggregate(emails, cfg.Ruleset())
	categories := cleaner.Categorize(stats, time.Now().UTC())

	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()

	runID := uuid.NewString()
	if err := store.RecordRun(ctx, runID, cfg.Provider, len(emails), len(stats)); err != nil {
		return err
	}

	if cfg.Events.NATSURL != "" {
		pub, err := events.NewPublisher(cfg.Events.NATSURL)
		if err != nil {
			log.Printf("NATS unavailable, events stay in the local outbox: %v", err)
		} else {
			defer pub.Close()
			if err := pub.EnsureStream(ctx); err != nil {
				return err
			}
			dispatcher := &events.Dispatcher{Store: store, Publisher: pub}
			go dispatcher.Run(ctx)
		}
	}

	exec := cleaner.NewExecutor(remover)
	exec.PauseEvery = cfg.Batch.PauseEvery
	exec.Pause = cfg.Batch.PauseDuration()
	exec.ProgressEvery = cfg.Batch.ProgressEvery
	exec.OnOutcome = func(e cleaner.Email, action cleaner.Action, opErr error) {
		ev := audit.MutationEvent{
			EventID:   uuid.NewString(),
			RunID:     runID,
			Timestamp: time.Now().Unix(),
			Provider:  cfg.Provider,
			MessageID: e.ID,
			Sender:    e.SenderAddress,
			Action:    action.String(),
			OK:        opErr == nil,
		}
		if opErr != nil {
			ev.Error = opErr.Error()
		}
		if err := store.AppendMutation(ctx, ev, events.SubjectFor(action.String()), events.TypeFor(action.String())); err != nil {
			log.Printf("Error recording mutation: %v", err)
		}
	}

	if cfg.Report.Listen != "" {
		snap := report.NewSnapshot(cfg.Provider, len(emails), stats, categories)
		go func() {
			log.Printf("Report available at http://%s/report", cfg.Report.Listen)
			if err := report.Serve(cfg.Report.Listen, snap); err != nil {
				log.Printf("Report server stopped: %v", err)
			}
		}()
	}

	menu := &cli.Menu{
		In:         os.Stdin,
		Out:        os.Stdout,
		Provider:   cfg.Provider,
		EmailCount: len(emails),
		Stats:      stats,
		Categories: categories,
		Exec:       exec,
	}
	return menu.Run(ctx)
}
