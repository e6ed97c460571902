package schedule

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/playroom/internal/model"
)

// Policy picks one event when several are active at once.
type Policy string

const (
	// PolicyFirst picks the first active event in collection order.
	PolicyFirst Policy = "first"
	// PolicyShortest picks the active event with the shortest window.
	PolicyShortest Policy = "shortest"
)

func (p Policy) IsValid() bool {
	switch p {
	case PolicyFirst, PolicyShortest:
		return true
	default:
		return false
	}
}

func ParsePolicy(raw string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PolicyFirst, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("schedule: unknown selection policy %q", raw)
	}
	return p, nil
}

// ActiveAt reports whether ev is happening at the cursor: either today's
// recurrence is active, or yesterday's overnight recurrence has not ended yet.
func ActiveAt(ev model.Event, c Cursor) bool {
	w, err := WindowOf(ev)
	if err != nil {
		return false
	}
	if ev.OccursOn(c.Weekday) && w.Classify(c.Minutes) == StatusActive {
		return true
	}
	return ev.OccursOn(c.Yesterday()) && w.Wraps() && c.Minutes < w.End
}

// Select returns at most one active event according to policy.
func Select(events []model.Event, c Cursor, policy Policy) (model.Event, bool) {
	best := -1
	bestLen := 0
	for i, ev := range events {
		if !ActiveAt(ev, c) {
			continue
		}
		if policy != PolicyShortest {
			return ev.Clone(), true
		}
		w, _ := WindowOf(ev)
		if best < 0 || w.Duration() < bestLen {
			best, bestLen = i, w.Duration()
		}
	}
	if best < 0 {
		return model.Event{}, false
	}
	return events[best].Clone(), true
}
