package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/playroom/internal/model"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func iconTitle(ev model.Event) string {
	if strings.TrimSpace(ev.Icon) == "" {
		return ev.Title
	}
	return ev.Icon + " " + ev.Title
}

// formatRemaining renders a minute count as "45 min left" or "1h 30m left".
func formatRemaining(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min left", minutes)
	}
	return fmt.Sprintf("%dh %02dm left", minutes/60, minutes%60)
}
