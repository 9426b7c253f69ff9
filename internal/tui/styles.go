package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Shimmer animation for the SKYFARE logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "S K Y F A R E" as a flowing wave of blue light.
// Deep night blue (#13293f) -> bright sky (#38bdf8). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "SKYFARE"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: night blue -> bright sky
		// Deep:   (19, 41, 63)   #13293f
		// Bright: (56, 189, 248) #38bdf8
		r := clampByte(19 + b*(56-19))
		g := clampByte(41 + b*(189-41))
		bl := clampByte(63 + b*(248-63))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — skyfare neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2da7e0"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2da7e0")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e2430"))

	// Role colors
	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleUser:    lipgloss.Color("#8890a0"),
		domain.RoleAirline: lipgloss.Color("#38bdf8"),
		domain.RoleAdmin:   lipgloss.Color("#d4a844"),
	}
)

// RoleStyle returns a bold style colored for the given role.
func RoleStyle(role domain.Role) lipgloss.Style {
	if c, ok := roleColors[role]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// RoleBadge returns a short colored badge string for a role, e.g. "[ADMIN]".
func RoleBadge(role domain.Role) string {
	if role == "" {
		return ""
	}
	return RoleStyle(role).Render("[" + string(role) + "]")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay, with the view list gated by role.
func helpView(role domain.Role) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("S K Y F A R E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Book smart. Fly easy.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"skyfare", "Launch the booking terminal"},
		{"skyfare logout", "Clear your session"},
		{"skyfare --version", "Show version"},
	}

	keys := []struct{ key, desc string }{
		{"1-4", "Switch views"},
		{"j/k", "Move the cursor"},
		{"enter", "Select / confirm"},
		{"esc", "Back / cancel"},
		{"r", "Reload the current view"},
		{"o", "Sign out"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Views"))
	views := []struct {
		key string
		v   viewID
	}{
		{"1", viewSearch},
		{"2", viewBookings},
		{"3", viewManage},
		{"4", viewAdmin},
	}
	for _, e := range views {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", e.key+" "+viewTitle(e.v)))
		if canAccess(e.v, role) {
			fmt.Fprintf(&b, "    %s  %s\n", label, descStyle.Render(viewBlurb(e.v)))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", label, dimStyle.Render("requires "+string(requiredRole(e.v))))
		}
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
