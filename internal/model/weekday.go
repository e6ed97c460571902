package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	Weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	Weekends = []time.Weekday{time.Saturday, time.Sunday}
	AllDays  = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
)

// ParseWeekdays reads a comma separated day list such as "mon,wed,fri",
// "weekdays", "daily" or "1,3,5". "none" yields an empty, non-nil set.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty day list", ErrInvalidWeekday)
	}
	if normalized == "none" {
		return []time.Weekday{}, nil
	}

	var set [7]bool
	for _, token := range strings.FieldsFunc(normalized, func(r rune) bool { return r == ',' || r == ' ' }) {
		switch token {
		case "daily", "all", "everyday":
			for _, d := range AllDays {
				set[d] = true
			}
		case "weekdays", "weekday":
			for _, d := range Weekdays {
				set[d] = true
			}
		case "weekends", "weekend":
			for _, d := range Weekends {
				set[d] = true
			}
		default:
			d, ok := weekdayToken(token)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, token)
			}
			set[d] = true
		}
	}

	out := make([]time.Weekday, 0, 7)
	for d, on := range set {
		if on {
			out = append(out, time.Weekday(d))
		}
	}
	return out, nil
}

func weekdayToken(token string) (time.Weekday, bool) {
	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 || n > 6 {
			return 0, false
		}
		return time.Weekday(n), true
	}
	for _, d := range AllDays {
		name := strings.ToLower(d.String())
		if token == name || token == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// FormatWeekdays renders days Sunday-first as short names ("Mon Wed Fri").
func FormatWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "never"
	}
	sorted := append([]time.Weekday(nil), days...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted) == 7 {
		return "daily"
	}
	names := make([]string, 0, len(sorted))
	for _, d := range sorted {
		if d < time.Sunday || d > time.Saturday {
			continue
		}
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, " ")
}
