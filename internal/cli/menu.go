// Package cli implements the interactive cleanup session: browse the category
// buckets, inspect senders, pick what to remove.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sweeper-dev/mailsweep/internal/cleaner"
	"github.com/sweeper-dev/mailsweep/internal/report"
)

// displayLimit caps how many senders a category screen shows; selections are
// made against this displayed slice.
const displayLimit = 15

// Menu drives the interactive session. In and Out are injectable so the whole
// flow can be scripted in tests.
type Menu struct {
	In  io.Reader
	Out io.Writer

	Provider   string
	EmailCount int
	Stats      map[string]*cleaner.SenderStats
	Categories map[string]*cleaner.Category
	Exec       *cleaner.Executor

	scanner *bufio.Scanner
}

// Run shows the main menu until the user quits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	m.scanner = bufio.NewScanner(m.In)

	for {
		populated := m.populated()
		m.printMain(populated)

		choice, ok := m.readLine("Choice: ")
		if !ok {
			return nil
		}

		switch strings.ToLower(choice) {
		case "q", "quit":
			fmt.Fprintln(m.Out, "Bye.")
			return nil
		case "s":
			m.printStatistics()
		case "a":
			m.autoClean(ctx, populated)
		default:
			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(populated) {
				fmt.Fprintln(m.Out, "Unknown choice.")
				continue
			}
			m.categoryMenu(ctx, populated[idx-1])
		}
	}
}

// populated returns the non-empty categories in display order.
func (m *Menu) populated() []*cleaner.Category {
	var out []*cleaner.Category
	for _, key := range cleaner.CategoryKeys() {
		if c := m.Categories[key]; c != nil && len(c.Members) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func memberGroups(populated []*cleaner.Category) [][]cleaner.Member {
	groups := make([][]cleaner.Member, 0, len(populated))
	for _, c := range populated {
		groups = append(groups, c.Members)
	}
	return groups
}

func (m *Menu) printMain(populated []*cleaner.Category) {
	fmt.Fprintf(m.Out, "\n=== MAILSWEEP (%s) ===\n", m.Provider)
	fmt.Fprintf(m.Out, "Scanned %d messages from %d senders.\n\n", m.EmailCount, len(m.Stats))

	if len(populated) == 0 {
		fmt.Fprintln(m.Out, "Nothing to clean up. Your inbox looks tidy.")
	}
	for i, c := range populated {
		fmt.Fprintf(m.Out, "  %d. %s - %d senders, %d messages\n", i+1, c.Title, len(c.Members), c.TotalMessageCount)
	}
	if len(populated) > 0 {
		total := len(cleaner.ResolveSelection(memberGroups(populated)...))
		fmt.Fprintf(m.Out, "\nPotential cleanup: ~%d messages\n", total)
	}
	fmt.Fprintln(m.Out, "\n  S. Statistics")
	fmt.Fprintln(m.Out, "  A. Auto-clean everything above")
	fmt.Fprintln(m.Out, "  Q. Quit")
}

func (m *Menu) printStatistics() {
	var unread int
	for _, s := range m.Stats {
		unread += s.Unread
	}
	fmt.Fprintf(m.Out, "\nMessages scanned: %d\n", m.EmailCount)
	fmt.Fprintf(m.Out, "Distinct senders: %d\n", len(m.Stats))
	fmt.Fprintf(m.Out, "Unread:           %d\n\n", unread)

	fmt.Fprintln(m.Out, "Top senders:")
	for i, s := range report.TopSenders(m.Stats, 10) {
		fmt.Fprintf(m.Out, "  %2d. %-40s %4d messages (%.0f%% read)\n", i+1, s.Address, s.Total, s.ReadRate*100)
	}
}

// autoClean collects every message in every populated category (each message
// once) and removes the whole set after an explicit confirmation.
func (m *Menu) autoClean(ctx context.Context, populated []*cleaner.Category) {
	emails := cleaner.ResolveSelection(memberGroups(populated)...)
	if len(emails) == 0 {
		fmt.Fprintln(m.Out, "Nothing to clean.")
		return
	}

	fmt.Fprintf(m.Out, "\nAuto-clean will remove %d messages across %d categories.\n", len(emails), len(populated))
	m.execute(ctx, emails)
}

func (m *Menu) categoryMenu(ctx context.Context, c *cleaner.Category) {
	displayed := c.Members
	if len(displayed) > displayLimit {
		displayed = displayed[:displayLimit]
	}

	fmt.Fprintf(m.Out, "\n%s\n%s\n\n", c.Title, c.Description)
	for i, mem := range displayed {
		s := mem.Stats
		fmt.Fprintf(m.Out, "  %2d. %-30s %-40s %4d messages (%.0f%% read)\n",
			i+1, truncate(s.DisplayName, 30), mem.Address, s.Total, s.ReadRate*100)
	}
	if len(c.Members) > len(displayed) {
		fmt.Fprintf(m.Out, "  ... and %d more senders\n", len(c.Members)-len(displayed))
	}

	expr, ok := m.readLine("\nSelect senders to clean ('all' = every sender in this category, '2-5', '1,3'), or B to go back: ")
	if !ok || strings.EqualFold(expr, "b") {
		return
	}

	// 'all' covers the whole category, including senders beyond the display
	// cap; numeric selections address the displayed list only.
	var picked []cleaner.Member
	if strings.EqualFold(expr, "all") {
		picked = c.Members
	} else {
		indices := cleaner.ParseSelection(expr, len(displayed))
		picked = cleaner.PickMembers(displayed, indices)
	}
	if len(picked) == 0 {
		fmt.Fprintln(m.Out, "Nothing selected.")
		return
	}

	emails := cleaner.ResolveSelection(picked)
	fmt.Fprintf(m.Out, "\nSelected %d senders, %d messages.\n", len(picked), len(emails))
	m.execute(ctx, emails)
}

// execute confirms, picks trash vs delete, runs the batch and reports.
func (m *Menu) execute(ctx context.Context, emails []cleaner.Email) {
	confirm, ok := m.readLine(fmt.Sprintf("Remove %d messages? Type 'yes' to confirm: ", len(emails)))
	if !ok || strings.ToLower(strings.TrimSpace(confirm)) != "yes" {
		fmt.Fprintln(m.Out, "Cancelled.")
		return
	}

	action := cleaner.ActionTrash
	if mode, ok := m.readLine("Move to trash or delete permanently? [T/d]: "); ok && strings.EqualFold(strings.TrimSpace(mode), "d") {
		action = cleaner.ActionDelete
	}

	res := m.Exec.Run(ctx, emails, action)
	fmt.Fprintf(m.Out, "\nDone: %d removed, %d failed.\n", res.Succeeded, res.Failed)
}

func (m *Menu) readLine(prompt string) (string, bool) {
	fmt.Fprint(m.Out, prompt)
	if !m.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.scanner.Text()), true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
