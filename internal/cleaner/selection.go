package cleaner

import (
	"strconv"
	"strings"
)

// ResolveSelection flattens the chosen members into a single delete-set,
// de-duplicated by message ID. First occurrence wins, so a message that
// qualifies under several categories is processed once, at its first
// encounter.
func ResolveSelection(groups ...[]Member) []Email {
	seen := make(map[string]struct{})
	var out []Email
	for _, group := range groups {
		for _, m := range group {
			for _, e := range m.Stats.Messages {
				if _, dup := seen[e.ID]; dup {
					continue
				}
				seen[e.ID] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}

// ParseSelection interprets a selection expression over a displayed list of n
// items and returns 1-based indices. Accepted forms:
//
//	"all"    every item
//	"a-b"    inclusive range, clipped to [1, n]
//	"i,j,k"  explicit indices; out-of-range entries are dropped
//
// Malformed input resolves to an empty selection, never an error.
func ParseSelection(expr string, n int) []int {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" || n <= 0 {
		return nil
	}

	if expr == "all" {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}

	if strings.Contains(expr, "-") && !strings.Contains(expr, ",") {
		parts := strings.SplitN(expr, "-", 2)
		a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil
		}
		if a < 1 {
			a = 1
		}
		if b > n {
			b = n
		}
		if a > b {
			return nil
		}
		out := make([]int, 0, b-a+1)
		for i := a; i <= b; i++ {
			out = append(out, i)
		}
		return out
	}

	var out []int
	for _, field := range strings.Split(expr, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil
		}
		if v >= 1 && v <= n {
			out = append(out, v)
		}
	}
	return out
}

// PickMembers maps 1-based indices back onto the displayed member list.
// Indices outside the list are ignored.
func PickMembers(displayed []Member, indices []int) []Member {
	var out []Member
	for _, i := range indices {
		if i >= 1 && i <= len(displayed) {
			out = append(out, displayed[i-1])
		}
	}
	return out
}
