package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/playroom/internal/model"
)

// 2024-01-01 is a Monday.
func instant(day int, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.Local)
}

func breakfastAndBedtime() []model.Event {
	return []model.Event{
		{ID: "breakfast", Title: "Breakfast", StartTime: "07:30", EndTime: "08:00", Days: model.AllDays},
		{ID: "bedtime", Title: "Bedtime", StartTime: "20:30", EndTime: "07:00", Days: model.AllDays},
	}
}

func TestProjectDayFiltersByWeekdayAndSorts(t *testing.T) {
	mwf := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	events := []model.Event{
		{ID: "late", Title: "Late", StartTime: "15:00", EndTime: "16:00", Days: mwf},
		{ID: "early", Title: "Early", StartTime: "08:00", EndTime: "09:00", Days: mwf},
		{ID: "never", Title: "Never", StartTime: "01:00", EndTime: "02:00", Days: []time.Weekday{}},
	}

	tuesday := ProjectDay(events, CursorAt(instant(2, 12, 0)))
	require.NotNil(t, tuesday)
	assert.Empty(t, tuesday)

	for _, day := range []int{1, 3, 5} {
		got := ProjectDay(events, CursorAt(instant(day, 12, 0)))
		require.Len(t, got, 2)
		assert.Equal(t, "early", got[0].Event.ID)
		assert.Equal(t, StatusPast, got[0].Status)
		assert.Equal(t, "late", got[1].Event.ID)
		assert.Equal(t, StatusFuture, got[1].Status)
	}
}

func TestProjectDayKeepsCollectionOrderOnTies(t *testing.T) {
	events := []model.Event{
		{ID: "b", Title: "B", StartTime: "10:00", EndTime: "11:00", Days: model.AllDays},
		{ID: "a", Title: "A", StartTime: "10:00", EndTime: "10:30", Days: model.AllDays},
	}
	got := ProjectDay(events, CursorAt(instant(1, 9, 0)))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Event.ID)
	assert.Equal(t, "a", got[1].Event.ID)
}

func TestProjectBreakfastAndBedtimeScenario(t *testing.T) {
	for day := 1; day <= 7; day++ {
		snap := Project(breakfastAndBedtime(), instant(day, 6, 0))
		require.NotNil(t, snap.Active)
		assert.Equal(t, "bedtime", snap.Active.ID)
		require.Len(t, snap.Today, 2)
		assert.Equal(t, "breakfast", snap.Today[0].Event.ID)
		assert.Equal(t, StatusFuture, snap.Today[0].Status)
		assert.Equal(t, "bedtime", snap.Today[1].Event.ID)
		assert.Equal(t, StatusActive, snap.Today[1].Status)

		snap = Project(breakfastAndBedtime(), instant(day, 7, 45))
		require.NotNil(t, snap.Active)
		assert.Equal(t, "breakfast", snap.Active.ID)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	events := model.DefaultEvents()
	now := instant(4, 16, 45)
	assert.Equal(t, Project(events, now), Project(events, now))
}

func TestProjectReportsMalformedEventsWithoutBlockingOthers(t *testing.T) {
	events := append(breakfastAndBedtime(), model.Event{ID: "bad", Title: "Bad", StartTime: "7:30", EndTime: "08:00", Days: model.AllDays})
	snap := Project(events, instant(1, 7, 45))

	require.NotNil(t, snap.Active)
	assert.Equal(t, "breakfast", snap.Active.ID)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, "bad", snap.Issues[0].EventID)
	assert.ErrorIs(t, snap.Issues[0].Err, model.ErrInvalidClock)

	var bad Entry
	for _, entry := range snap.Today {
		if entry.Event.ID == "bad" {
			bad = entry
		}
	}
	assert.Equal(t, StatusFuture, bad.Status)
	assert.Error(t, bad.Err)
}

func TestProjectNoActiveEvent(t *testing.T) {
	snap := Project(breakfastAndBedtime(), instant(1, 12, 0))
	assert.Nil(t, snap.Active)
	assert.Empty(t, snap.Issues)
}
