package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TimelineItemData struct {
	ID        string
	Title     string
	Icon      string
	Color     string
	Start     string
	End       string
	Status    string // past, active or future
	Overnight bool
	Invalid   bool
}

type TimelinePanelData struct {
	Day          string
	Items        []TimelineItemData
	ProgressView string
	Remaining    string
}

type ClockPanelData struct {
	Minimal bool
	Time    string
	Seconds string
	Date    string
	Day     string
	Active  string
}

type MagicPanelData struct {
	Visible     bool
	Loading     bool
	SpinnerView string
	Message     string
}

type SchedulePanelData struct {
	TableView string
	Count     int
	Selected  *TimelineItemData
	Days      string
}

type PresetsPanelData struct {
	ListView string
	Count    int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTimelinePanel(data TimelinePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today's schedule: %s\n", data.Day))
	if len(data.Items) == 0 {
		b.WriteString("\n  No events today!\n")
		return strings.TrimSpace(b.String())
	}
	for _, item := range data.Items {
		line := fmt.Sprintf("%s-%s  %s %s", item.Start, item.End, iconOrDot(item.Icon), item.Title)
		if item.Overnight {
			line += " (overnight)"
		}
		switch {
		case item.Invalid:
			b.WriteString("  " + pastStyle.Render(line+" [invalid time]") + "\n")
		case item.Status == "past":
			b.WriteString("  " + pastStyle.Render(line) + "\n")
		case item.Status == "active":
			color := colorOr(item.Color, AccentAfternoon)
			b.WriteString("> " + activeStyle.Foreground(color).Render(line) + "\n")
			b.WriteString("  " + badgeStyle.Background(color).Render("HAPPENING NOW") + "\n")
			if data.ProgressView != "" {
				b.WriteString("  " + data.ProgressView + "\n")
			}
			if data.Remaining != "" {
				b.WriteString("  " + data.Remaining + "\n")
			}
		default:
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderClockPanel(data ClockPanelData) string {
	var b strings.Builder
	if data.Minimal {
		b.WriteString(data.Time + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%s:%s\n", data.Time, data.Seconds))
		b.WriteString(fmt.Sprintf("%s, %s\n", data.Day, data.Date))
	}
	if data.Active != "" {
		b.WriteString("now: " + data.Active + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderMagicPanel(data MagicPanelData) string {
	if !data.Visible {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n✨ daily magic:\n")
	if data.Loading {
		b.WriteString(data.SpinnerView + " conjuring...")
		return b.String()
	}
	b.WriteString(data.Message)
	return b.String()
}

func RenderSchedulePanel(data SchedulePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("all events (%d):\n", data.Count))
	b.WriteString("actions: [j/k]move [x]remove [/]add or edit\n")
	b.WriteString(data.TableView)
	if data.Selected != nil {
		b.WriteString("\n\nselected:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("when: %s-%s %s\n", data.Selected.Start, data.Selected.End, data.Days))
		if data.Selected.Color != "" {
			b.WriteString(fmt.Sprintf("color: %s", lipgloss.NewStyle().Foreground(lipgloss.Color(data.Selected.Color)).Render(data.Selected.Color)))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderPresetsPanel(data PresetsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("presets (%d):\n", data.Count))
	b.WriteString("actions: [enter]load [d]delete [/]preset save <name>\n")
	if data.Count == 0 {
		b.WriteString("(no saved presets)")
		return b.String()
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "\ncommand:\n" + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("\nhelp (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func iconOrDot(icon string) string {
	if strings.TrimSpace(icon) == "" {
		return "•"
	}
	return icon
}
