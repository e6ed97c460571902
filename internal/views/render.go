package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Accent       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	activeStyle = lipgloss.NewStyle().Bold(true)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
)

// Time-of-day accents, used when nothing is happening.
const (
	AccentMorning   = "#60A5FA"
	AccentAfternoon = "#3B82F6"
	AccentEvening   = "#F97316"
	AccentNight     = "#312E81"
)

// AccentFor returns the active event colour, or a palette colour for hour.
func AccentFor(activeColor string, hour int) string {
	if strings.TrimSpace(activeColor) != "" {
		return activeColor
	}
	switch {
	case hour >= 6 && hour < 12:
		return AccentMorning
	case hour >= 12 && hour < 17:
		return AccentAfternoon
	case hour >= 17 && hour < 20:
		return AccentEvening
	default:
		return AccentNight
	}
}

func RenderApp(data AppData) string {
	accent := colorOr(data.Accent, AccentNight)
	panel := panelStyle.BorderForeground(accent)

	left := panel.Width(46).Render(data.LeftPane)
	right := panel.Width(58).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Background(accent).Foreground(lipgloss.Color("#FFFFFF")).Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func colorOr(c, fallback string) lipgloss.Color {
	if strings.TrimSpace(c) == "" {
		return lipgloss.Color(fallback)
	}
	return lipgloss.Color(c)
}
