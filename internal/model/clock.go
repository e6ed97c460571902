package model

import (
	"errors"
	"fmt"
)

const MinutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("model: invalid clock time")

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

// ParseClock accepts only the zero-padded 24h "HH:MM" form.
func ParseClock(raw string) (Clock, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hh, ok := twoDigits(raw[0], raw[1])
	if !ok || hh > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	mm, ok := twoDigits(raw[3], raw[4])
	if !ok || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock(hh*60 + mm), nil
}

func ClockOf(hour, minute int) Clock {
	return Clock(((hour*60+minute)%MinutesPerDay + MinutesPerDay) % MinutesPerDay)
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
