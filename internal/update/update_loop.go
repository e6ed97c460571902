package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/playroom/internal/flavor"
	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/views"
)

func (m Model) Init() tea.Cmd {
	return m.nextTickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, nil
		case m.Keys.Schedule:
			m.CurrentView = ViewSchedule
			return m, nil
		case m.Keys.Presets:
			m.CurrentView = ViewPresets
			return m, nil
		case m.Keys.Magic:
			cmd, err := m.setMagic(!m.ShowMagic)
			m.reportResult(magicStatus(m.ShowMagic), err)
			return m, cmd
		case m.Keys.Clock:
			m.ClockMode = toggleClock(m.ClockMode)
			m.Status = StatusBar{Text: fmt.Sprintf("clock: %s", m.ClockMode)}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewSchedule:
			return m.handleScheduleKey(typed), nil
		case ViewPresets:
			return m.handlePresetsKey(typed), nil
		default:
			var cmd tea.Cmd
			m.timelineViewport, cmd = m.timelineViewport.Update(typed)
			return m, cmd
		}
	case TickMsg:
		m.reproject(typed.Now)
		cmds := []tea.Cmd{m.nextTickCmd()}
		if cmd := m.maybeRefreshMagic(typed.Now); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	case MagicMsg:
		if typed.Seq != m.Magic.Seq {
			return m, nil
		}
		m.Magic.Loading = false
		m.Magic.Message = typed.Message
		if typed.Err != nil {
			m.logger.Warn("daily magic fell back", "err", typed.Err)
		}
		return m, nil
	case spinner.TickMsg:
		if m.Magic.Loading {
			var cmd tea.Cmd
			m.magicSpinner, cmd = m.magicSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var left, right string
	switch m.CurrentView {
	case ViewSchedule:
		left = m.renderScheduleView()
		right = m.timelineViewport.View()
	case ViewPresets:
		left = m.renderPresetsView()
		right = m.timelineViewport.View()
	default:
		left = m.renderClock() + m.renderMagic()
		right = m.timelineViewport.View()
	}
	right += views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()) + m.renderHelpIfVisible()

	notification := ""
	if n := len(m.Notifications); n > 0 {
		last := m.Notifications[n-1]
		notification = views.RenderNotification(last.Level, last.Body)
	}

	activeColor, nowTitle := "", "free play"
	if m.Snapshot.Active != nil {
		activeColor = m.Snapshot.Active.Color
		nowTitle = m.Snapshot.Active.Title
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("playroom | view: %s | now: %s", m.CurrentView, nowTitle),
		Accent:       views.AccentFor(activeColor, m.Snapshot.Cursor.Instant.Hour()),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s today | %s schedule | %s presets | / cmd | %s magic | %s clock | %s help | %s quit",
			m.Keys.Today, m.Keys.Schedule, m.Keys.Presets, m.Keys.Magic, m.Keys.Clock, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderTimeline() string {
	c := m.Snapshot.Cursor
	data := views.TimelinePanelData{Day: c.Weekday.String()}
	for _, entry := range m.Snapshot.Today {
		data.Items = append(data.Items, views.TimelineItemData{
			ID:        entry.Event.ID,
			Title:     entry.Event.Title,
			Icon:      entry.Event.Icon,
			Color:     entry.Event.Color,
			Start:     entry.Event.StartTime,
			End:       entry.Event.EndTime,
			Status:    string(entry.Status),
			Overnight: entry.Err == nil && entry.Window.Wraps(),
			Invalid:   entry.Err != nil,
		})
	}
	if w, ok := m.activeWindow(); ok {
		data.ProgressView = m.activeProgress.ViewAs(w.Progress(c.Minutes))
		data.Remaining = formatRemaining(w.Remaining(c.Minutes))
	}
	return views.RenderTimelinePanel(data)
}

func (m Model) renderClock() string {
	now := m.Snapshot.Cursor.Instant
	data := views.ClockPanelData{
		Minimal: m.ClockMode == ClockMinimal,
		Time:    now.Format("3:04"),
		Seconds: now.Format("05 PM"),
		Date:    now.Format("January 2"),
		Day:     now.Weekday().String(),
	}
	if data.Minimal {
		data.Time = now.Format("3:04 PM")
	}
	if m.Snapshot.Active != nil {
		data.Active = iconTitle(*m.Snapshot.Active)
	}
	return views.RenderClockPanel(data)
}

func (m Model) renderMagic() string {
	msg := m.Magic.Message
	if !m.Magic.Loading && msg != "" {
		msg = views.RenderMarkdown(msg)
	}
	return views.RenderMagicPanel(views.MagicPanelData{
		Visible:     m.ShowMagic,
		Loading:     m.Magic.Loading,
		SpinnerView: m.magicSpinner.View(),
		Message:     msg,
	})
}

func (m Model) renderScheduleView() string {
	data := views.SchedulePanelData{TableView: m.scheduleTable.View(), Count: m.Store.Len()}
	if ev, ok := m.selectedEvent(); ok {
		data.Selected = &views.TimelineItemData{ID: ev.ID, Title: ev.Title, Color: ev.Color, Start: ev.StartTime, End: ev.EndTime}
		data.Days = model.FormatWeekdays(ev.Days)
	}
	return views.RenderSchedulePanel(data)
}

func (m Model) renderPresetsView() string {
	return views.RenderPresetsPanel(views.PresetsPanelData{ListView: m.presetList.View(), Count: len(m.Presets)})
}

func (m Model) handleScheduleKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.scheduleCursor < m.Store.Len()-1 {
			m.scheduleCursor++
		}
	case "k", "up":
		if m.scheduleCursor > 0 {
			m.scheduleCursor--
		}
	case "x":
		ev, ok := m.selectedEvent()
		if !ok {
			m.Status = StatusBar{Text: "no event selected", IsError: true}
			return m
		}
		res, err := m.removeEvent(ev)
		m.reportResult(res.Message, err)
	}
	return m
}

func (m Model) handlePresetsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.presetCursor < len(m.Presets)-1 {
			m.presetCursor++
		}
	case "k", "up":
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case "enter", "d":
		tpl, ok := m.selectedPreset()
		if !ok {
			m.Status = StatusBar{Text: "no preset selected", IsError: true}
			return m
		}
		if msg.String() == "enter" {
			res, err := m.loadPreset(tpl)
			m.reportResult(res.Message, err)
		} else {
			res, err := m.deletePreset(tpl)
			m.reportResult(res.Message, err)
		}
	}
	return m
}

func (m Model) nextTickCmd() tea.Cmd {
	if m.ticks != nil {
		return waitForTickCmd(m.ticks)
	}
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg { return TickMsg{Now: t} })
}

func waitForTickCmd(ch <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		now, ok := <-ch
		if !ok {
			return nil
		}
		return TickMsg{Now: now}
	}
}

// maybeRefreshMagic starts a flavor request when the refresh trigger fires.
func (m *Model) maybeRefreshMagic(now time.Time) tea.Cmd {
	if !m.ShowMagic || m.refresh == nil {
		return nil
	}
	if !m.refresh.Observe(m.Snapshot.Active, now) {
		return nil
	}
	return m.startMagic(now)
}

func (m *Model) startMagic(now time.Time) tea.Cmd {
	m.Magic.Seq++
	m.Magic.Loading = true
	return tea.Batch(
		m.magicSpinner.Tick,
		fetchMagicCmd(m.flavor, flavor.RequestFor(m.Snapshot.Active, now), m.magicTimeout, m.Magic.Seq),
	)
}

func fetchMagicCmd(p flavor.Provider, req flavor.Request, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		msg, err := flavor.Fetch(context.Background(), p, req, timeout)
		return MagicMsg{Seq: seq, Message: msg, Err: err}
	}
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{Title: title, Body: body, Level: level, At: m.now()})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}

func (m *Model) reportResult(message string, err error) {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return
	}
	m.Status = StatusBar{Text: message}
	m.notify("Command", message, "info")
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewSchedule, ViewPresets:
		return true
	default:
		return false
	}
}

func toggleClock(mode ClockMode) ClockMode {
	if mode == ClockMinimal {
		return ClockFull
	}
	return ClockMinimal
}

func magicStatus(on bool) string {
	if on {
		return "daily magic on"
	}
	return "daily magic off"
}
