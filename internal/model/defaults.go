package model

import "time"

const (
	DefaultColor = "#3B82F6"
	DefaultIcon  = "📅"
)

// PresetColors is the palette new events cycle through when no colour is given.
var PresetColors = []string{"#EF4444", "#F97316", "#FCD34D", "#10B981", "#3B82F6", "#8B5CF6", "#EC4899", "#6B7280"}

// DefaultEvents is the schedule installed on first run and by "defaults".
func DefaultEvents() []Event {
	return []Event{
		{ID: "1", Title: "Breakfast", StartTime: "07:30", EndTime: "08:00", Days: everyDay(), Color: "#FCD34D", Icon: "🥞"},
		{ID: "2", Title: "School / Pre-K", StartTime: "08:30", EndTime: "15:00", Days: []time.Weekday{1, 2, 3, 4, 5}, Color: "#60A5FA", Icon: "🎒"},
		{ID: "3", Title: "Taekwondo", StartTime: "16:30", EndTime: "17:30", Days: []time.Weekday{time.Tuesday, time.Thursday}, Color: "#EF4444", Icon: "🥋"},
		{ID: "4", Title: "Dinner Time", StartTime: "18:00", EndTime: "19:00", Days: everyDay(), Color: "#10B981", Icon: "🥦"},
		{ID: "5", Title: "Bath & Stories", StartTime: "19:30", EndTime: "20:00", Days: everyDay(), Color: "#8B5CF6", Icon: "🛁"},
		{ID: "6", Title: "Bedtime", StartTime: "20:30", EndTime: "07:00", Days: everyDay(), Color: "#1E3A8A", Icon: "💤"},
	}
}

func everyDay() []time.Weekday {
	return append([]time.Weekday(nil), AllDays...)
}
