package schedule

import (
	"sort"

	"github.com/sandeepkv93/playroom/internal/model"
)

// Entry is one event of the daily projection with its status at the cursor.
// Err is set when the event's clock fields do not parse; Status is then
// StatusFuture.
type Entry struct {
	Event  model.Event
	Status Status
	Window Window
	Err    error
}

// ProjectDay returns the events recurring on the cursor's weekday ordered by
// start time. Ties keep collection order.
func ProjectDay(events []model.Event, c Cursor) []Entry {
	out := make([]Entry, 0, len(events))
	for _, ev := range events {
		if !ev.OccursOn(c.Weekday) {
			continue
		}
		entry := Entry{Event: ev.Clone(), Status: StatusFuture}
		w, err := WindowOf(ev)
		if err != nil {
			entry.Err = err
		} else {
			entry.Window = w
			entry.Status = w.Classify(c.Minutes)
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Event.StartTime < out[j].Event.StartTime
	})
	return out
}
