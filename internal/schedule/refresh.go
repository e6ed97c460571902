package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/playroom/internal/model"
)

const DefaultRefreshSpec = "@every 30m"

// RefreshTrigger tracks the selected event across ticks and reports when
// derived content should be regenerated.
type RefreshTrigger struct {
	schedule cron.Schedule
	started  bool
	activeID string
	next     time.Time
}

func NewRefreshTrigger(spec string) (*RefreshTrigger, error) {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("schedule: parse refresh spec %q: %w", spec, err)
	}
	return &RefreshTrigger{schedule: sched}, nil
}

// Observe records the selection at now and reports whether to refresh: on the
// first call, when the active id changes (including to or from none), or once
// the idle schedule has elapsed since the last refresh.
func (t *RefreshTrigger) Observe(active *model.Event, now time.Time) bool {
	id := ""
	if active != nil {
		id = active.ID
	}
	fire := !t.started || id != t.activeID || !now.Before(t.next)
	t.started = true
	t.activeID = id
	if fire {
		t.next = t.schedule.Next(now)
	}
	return fire
}

// Reset forces the next Observe to fire.
func (t *RefreshTrigger) Reset() {
	t.started = false
}
