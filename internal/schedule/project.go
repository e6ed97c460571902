package schedule

import (
	"time"

	"github.com/sandeepkv93/playroom/internal/model"
)

// Issue names an event whose window could not be evaluated.
type Issue struct {
	EventID string
	Title   string
	Err     error
}

// Snapshot is everything the presentation layer needs for one tick.
type Snapshot struct {
	Cursor Cursor
	Today  []Entry
	Active *model.Event
	Issues []Issue
}

type Projector struct {
	policy Policy
}

func NewProjector(policy Policy) Projector {
	if !policy.IsValid() {
		policy = PolicyFirst
	}
	return Projector{policy: policy}
}

func (p Projector) Policy() Policy {
	if !p.policy.IsValid() {
		return PolicyFirst
	}
	return p.policy
}

func (p Projector) Project(events []model.Event, now time.Time) Snapshot {
	c := CursorAt(now)
	snap := Snapshot{Cursor: c, Today: ProjectDay(events, c)}
	if ev, ok := Select(events, c, p.Policy()); ok {
		snap.Active = &ev
	}
	for _, ev := range events {
		if _, err := WindowOf(ev); err != nil {
			snap.Issues = append(snap.Issues, Issue{EventID: ev.ID, Title: ev.Title, Err: err})
		}
	}
	return snap
}

// Project evaluates events at now with the first-match policy.
func Project(events []model.Event, now time.Time) Snapshot {
	return NewProjector(PolicyFirst).Project(events, now)
}
