package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWeekday   = errors.New("model: invalid weekday")
	ErrDuplicateWeekday = errors.New("model: duplicate weekday")
)

// Event is a named activity recurring weekly on Days between StartTime and
// EndTime. EndTime before StartTime means the window runs past midnight.
type Event struct {
	ID        string         `json:"id" yaml:"id"`
	Title     string         `json:"title" yaml:"title"`
	StartTime string         `json:"startTime" yaml:"start_time"`
	EndTime   string         `json:"endTime" yaml:"end_time"`
	Days      []time.Weekday `json:"days" yaml:"days"`
	Color     string         `json:"color" yaml:"color"`
	Icon      string         `json:"icon" yaml:"icon"`
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	return e.ValidateSchedule()
}

// ValidateSchedule checks everything except the id, which imports may leave
// for the store to assign.
func (e Event) ValidateSchedule() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if _, err := ParseClock(e.StartTime); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	if _, err := ParseClock(e.EndTime); err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	return ValidateWeekdays(e.Days)
}

func (e Event) OccursOn(day time.Weekday) bool {
	for _, d := range e.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with e.
func (e Event) Clone() Event {
	out := e
	if e.Days != nil {
		out.Days = append([]time.Weekday(nil), e.Days...)
	}
	return out
}

func ValidateWeekdays(days []time.Weekday) error {
	var seen [7]bool
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: %s", ErrDuplicateWeekday, d)
		}
		seen[d] = true
	}
	return nil
}
