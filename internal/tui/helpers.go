package tui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp for booking rows.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatSchedule renders a flight's departure or arrival time.
func formatSchedule(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2 15:04")
}

// formatDuration renders the leg time between departure and arrival.
func formatDuration(dep, arr time.Time) string {
	if dep.IsZero() || arr.IsZero() || !arr.After(dep) {
		return ""
	}
	d := arr.Sub(dep).Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// formatMoney renders a price with two decimals.
func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}
