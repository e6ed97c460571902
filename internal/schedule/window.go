package schedule

import (
	"github.com/sandeepkv93/playroom/internal/model"
)

// Window is the daily [Start, End) span of an event. End before Start runs
// past midnight into the next day.
type Window struct {
	Start model.Clock
	End   model.Clock
}

func WindowOf(ev model.Event) (Window, error) {
	start, err := model.ParseClock(ev.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := model.ParseClock(ev.EndTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

func (w Window) Wraps() bool {
	return w.End < w.Start
}

func (w Window) Contains(now model.Clock) bool {
	if w.Wraps() {
		return now >= w.Start || now < w.End
	}
	return now >= w.Start && now < w.End
}

// Classify returns the status of the window at now. A wrapping window is never
// past: before its start it is future, otherwise it is active. A zero-width
// window is never active.
func (w Window) Classify(now model.Clock) Status {
	if w.Contains(now) {
		return StatusActive
	}
	if w.Wraps() || now < w.Start {
		return StatusFuture
	}
	return StatusPast
}

// Duration is the window length in minutes.
func (w Window) Duration() int {
	if w.Wraps() {
		return model.MinutesPerDay - int(w.Start) + int(w.End)
	}
	return int(w.End) - int(w.Start)
}

// Elapsed is the minutes since the window opened, or 0 when now is outside it.
func (w Window) Elapsed(now model.Clock) int {
	if !w.Contains(now) {
		return 0
	}
	if now >= w.Start {
		return int(now) - int(w.Start)
	}
	return model.MinutesPerDay - int(w.Start) + int(now)
}

// Remaining is the minutes until the window closes, or 0 when now is outside it.
func (w Window) Remaining(now model.Clock) int {
	if !w.Contains(now) {
		return 0
	}
	return w.Duration() - w.Elapsed(now)
}

// Progress is the elapsed fraction of the window in [0, 1].
func (w Window) Progress(now model.Clock) float64 {
	d := w.Duration()
	if d <= 0 {
		return 0
	}
	return float64(w.Elapsed(now)) / float64(d)
}

// Evaluate classifies ev at now. A malformed clock yields StatusFuture and the
// parse error.
func Evaluate(ev model.Event, now model.Clock) (Status, error) {
	w, err := WindowOf(ev)
	if err != nil {
		return StatusFuture, err
	}
	return w.Classify(now), nil
}
