package cleaner

import (
	"context"
	"log"
	"time"
)

// Action selects the mutation applied to each message.
type Action int

const (
	// ActionTrash is reversible through the provider's trash folder.
	ActionTrash Action = iota
	// ActionDelete removes messages permanently.
	ActionDelete
)

func (a Action) String() string {
	if a == ActionDelete {
		return "delete"
	}
	return "trash"
}

// Remover is the provider-side mutation collaborator.
type Remover interface {
	Trash(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Result aggregates batch outcomes. Succeeded+Failed always equals the number
// of messages handed to Run.
type Result struct {
	Succeeded int
	Failed    int
}

// Executor applies one mutation per message, strictly in input order. A failed
// message is counted and skipped, never retried and never aborts the batch.
// After every PauseEvery mutations it sleeps to stay under provider rate
// limits.
type Executor struct {
	Remover       Remover
	PauseEvery    int
	Pause         time.Duration
	ProgressEvery int

	// OnProgress, when set, replaces the default progress log line.
	OnProgress func(done, total int, res Result)
	// OnOutcome observes every per-message outcome, e.g. for audit logging.
	OnOutcome func(e Email, action Action, err error)

	sleep func(time.Duration)
}

// NewExecutor returns an executor with the default pacing policy: pause one
// second after every 100 mutations, report progress every 50.
func NewExecutor(r Remover) *Executor {
	return &Executor{
		Remover:       r,
		PauseEvery:    100,
		Pause:         time.Second,
		ProgressEvery: 50,
		sleep:         time.Sleep,
	}
}

// Run executes the action over the delete-set and returns aggregate counts.
// It never returns an error: per-message failures only surface in the result.
func (x *Executor) Run(ctx context.Context, emails []Email, action Action) Result {
	var res Result

	for i, e := range emails {
		var err error
		switch action {
		case ActionDelete:
			err = x.Remover.Delete(ctx, e.ID)
		default:
			err = x.Remover.Trash(ctx, e.ID)
		}
		if err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
		if x.OnOutcome != nil {
			x.OnOutcome(e, action, err)
		}

		done := i + 1
		if x.ProgressEvery > 0 && done%x.ProgressEvery == 0 {
			if x.OnProgress != nil {
				x.OnProgress(done, len(emails), res)
			} else {
				log.Printf("progress: %d/%d (%d success, %d failed)", done, len(emails), res.Succeeded, res.Failed)
			}
		}
		if x.PauseEvery > 0 && done%x.PauseEvery == 0 && done < len(emails) {
			x.sleeper()(x.Pause)
		}
	}

	return res
}

func (x *Executor) sleeper() func(time.Duration) {
	if x.sleep != nil {
		return x.sleep
	}
	return time.Sleep
}
