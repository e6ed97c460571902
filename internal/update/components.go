package update

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
)

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Time", Width: 11},
		{Title: "Days", Width: 14},
		{Title: "Event", Width: 22},
	}
	m.scheduleTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	m.presetList = list.New([]list.Item{}, list.NewDefaultDelegate(), 52, 12)
	m.presetList.Title = "Presets"
	m.presetList.SetShowHelp(false)
	m.presetList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.activeProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.magicSpinner = spinner.New()
	m.magicSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.timelineViewport = viewport.New(54, 16)
}

func (m *Model) syncBubbleData() {
	events := m.Store.Events()
	rows := make([]table.Row, 0, len(events))
	for i, ev := range events {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			ev.StartTime + "-" + ev.EndTime,
			model.FormatWeekdays(ev.Days),
			iconTitle(ev),
		})
	}
	m.scheduleTable.SetRows(rows)
	m.scheduleCursor = clampCursor(m.scheduleCursor, len(rows))
	if len(rows) > 0 {
		m.scheduleTable.SetCursor(m.scheduleCursor)
	}

	items := make([]list.Item, 0, len(m.Presets))
	for _, tpl := range m.Presets {
		items = append(items, listItem{title: tpl.Name, description: fmt.Sprintf("%d events", len(tpl.Events))})
	}
	m.presetList.SetItems(items)
	m.presetCursor = clampCursor(m.presetCursor, len(items))
	if len(items) > 0 {
		m.presetList.Select(m.presetCursor)
	}

	m.timelineViewport.SetContent(m.renderTimeline())
}

// reproject evaluates the working collection at now and logs newly seen
// evaluation issues once.
func (m *Model) reproject(now time.Time) {
	m.Snapshot = m.projector.Project(m.Store.Events(), now)

	seen := make(map[string]bool, len(m.Snapshot.Issues))
	for _, issue := range m.Snapshot.Issues {
		key := issue.EventID + "|" + issue.Err.Error()
		seen[key] = true
		if !m.loggedIssues[key] {
			m.logger.Warn("event has an invalid time window", "event_id", issue.EventID, "title", issue.Title, "err", issue.Err)
		}
	}
	m.loggedIssues = seen
}

func (m Model) selectedEvent() (model.Event, bool) {
	events := m.Store.Events()
	if len(events) == 0 {
		return model.Event{}, false
	}
	return events[clampCursor(m.scheduleCursor, len(events))], true
}

func (m Model) selectedPreset() (model.Template, bool) {
	if len(m.Presets) == 0 {
		return model.Template{}, false
	}
	return m.Presets[clampCursor(m.presetCursor, len(m.Presets))], true
}

// activeWindow is the window of the selected event, when it parses.
func (m Model) activeWindow() (schedule.Window, bool) {
	if m.Snapshot.Active == nil {
		return schedule.Window{}, false
	}
	w, err := schedule.WindowOf(*m.Snapshot.Active)
	if err != nil {
		return schedule.Window{}, false
	}
	return w, true
}
