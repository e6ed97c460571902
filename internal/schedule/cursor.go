// Package schedule evaluates weekly recurring events against a wall-clock
// instant: which events apply today, their status, and which one is on now.
package schedule

import (
	"time"

	"github.com/sandeepkv93/playroom/internal/model"
)

// Cursor is the evaluation point derived from a local instant.
type Cursor struct {
	Instant time.Time
	Minutes model.Clock
	Weekday time.Weekday
}

func CursorAt(now time.Time) Cursor {
	return Cursor{
		Instant: now,
		Minutes: model.ClockOf(now.Hour(), now.Minute()),
		Weekday: now.Weekday(),
	}
}

// Yesterday is the weekday before the cursor, Sunday wrapping to Saturday.
func (c Cursor) Yesterday() time.Weekday {
	return (c.Weekday + 6) % 7
}
