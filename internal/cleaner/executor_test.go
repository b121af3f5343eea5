package cleaner

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRemover fails any ID present in failing and records call order.
type fakeRemover struct {
	failing map[string]bool
	trashed []string
	deleted []string
}

func (f *fakeRemover) Trash(_ context.Context, id string) error {
	f.trashed = append(f.trashed, id)
	if f.failing[id] {
		return errors.New("provider rejected")
	}
	return nil
}

func (f *fakeRemover) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.failing[id] {
		return errors.New("provider rejected")
	}
	return nil
}

func testEmails(n int) []Email {
	out := make([]Email, n)
	for i := range out {
		out[i] = Email{ID: string(rune('A' + i%26)) + "-" + string(rune('0'+i/26))}
	}
	return out
}

func TestExecutorFireAndContinue(t *testing.T) {
	emails := []Email{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	rm := &fakeRemover{failing: map[string]bool{"2": true, "4": true}}
	x := NewExecutor(rm)

	res := x.Run(context.Background(), emails, ActionTrash)
	if res.Succeeded != 2 || res.Failed != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Succeeded+res.Failed != len(emails) {
		t.Fatal("counts must cover every message")
	}
	if len(rm.trashed) != 4 {
		t.Fatalf("a failure aborted the batch: %v", rm.trashed)
	}
	// Strict input order.
	for i, id := range []string{"1", "2", "3", "4"} {
		if rm.trashed[i] != id {
			t.Fatalf("order = %v", rm.trashed)
		}
	}
}

func TestExecutorDeleteAction(t *testing.T) {
	rm := &fakeRemover{}
	x := NewExecutor(rm)
	res := x.Run(context.Background(), []Email{{ID: "1"}}, ActionDelete)
	if res.Succeeded != 1 || len(rm.deleted) != 1 || len(rm.trashed) != 0 {
		t.Fatalf("res=%+v deleted=%v trashed=%v", res, rm.deleted, rm.trashed)
	}
}

func TestExecutorPacing(t *testing.T) {
	rm := &fakeRemover{}
	x := NewExecutor(rm)
	x.PauseEvery = 10
	x.ProgressEvery = 5

	var pauses int
	x.sleep = func(time.Duration) { pauses++ }

	var progress []int
	x.OnProgress = func(done, total int, res Result) {
		progress = append(progress, done)
		if res.Succeeded+res.Failed != done {
			t.Fatalf("progress counts inconsistent at %d: %+v", done, res)
		}
	}

	res := x.Run(context.Background(), testEmails(25), ActionTrash)
	if res.Succeeded != 25 {
		t.Fatalf("res = %+v", res)
	}
	// Pauses after 10 and 20, not after the final message.
	if pauses != 2 {
		t.Fatalf("pauses = %d, want 2", pauses)
	}
	want := []int{5, 10, 15, 20, 25}
	if len(progress) != len(want) {
		t.Fatalf("progress = %v, want %v", progress, want)
	}
}

func TestExecutorOutcomeHook(t *testing.T) {
	rm := &fakeRemover{failing: map[string]bool{"bad": true}}
	x := NewExecutor(rm)

	type outcome struct {
		id string
		ok bool
	}
	var seen []outcome
	x.OnOutcome = func(e Email, action Action, err error) {
		if action != ActionTrash {
			t.Fatalf("action = %v", action)
		}
		seen = append(seen, outcome{e.ID, err == nil})
	}

	x.Run(context.Background(), []Email{{ID: "good"}, {ID: "bad"}}, ActionTrash)
	if len(seen) != 2 || !seen[0].ok || seen[1].ok {
		t.Fatalf("outcomes = %v", seen)
	}
}

func TestExecutorEmptyInput(t *testing.T) {
	x := NewExecutor(&fakeRemover{})
	res := x.Run(context.Background(), nil, ActionTrash)
	if res.Succeeded != 0 || res.Failed != 0 {
		t.Fatalf("res = %+v", res)
	}
}
