package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eazytourist/skyfare/internal/session"
	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

// authExpiredMsg forces re-authentication. Any backend answering 401 ends
// up here: the credential is dropped and the sign-in view takes over.
type authExpiredMsg struct{}

func expireAuth() tea.Cmd {
	return func() tea.Msg { return authExpiredMsg{} }
}

// App is the root Bubbletea model.
type App struct {
	session  *session.Store
	auth     *client.Auth
	flights  *client.Flights
	bookings *client.Bookings
	version  string

	view     viewID
	signedIn bool

	login      loginModel
	search     searchModel
	myBookings bookingsModel
	manage     manageModel
	admin      adminModel

	helpOpen        bool
	updateAvailable string
	width           int
	height          int
	frame           int // logo shimmer animation frame
}

// NewApp creates the TUI application. The session store decides whether it
// opens signed in or on the sign-in view.
func NewApp(store *session.Store, auth *client.Auth, flights *client.Flights, bookings *client.Bookings, version string) App {
	a := App{
		session:    store,
		auth:       auth,
		flights:    flights,
		bookings:   bookings,
		version:    version,
		login:      newLoginModel(auth),
		search:     newSearchModel(flights, bookings),
		myBookings: newBookingsModel(bookings, flights),
		manage:     newManageModel(flights),
		admin:      newAdminModel(auth),
	}
	if store.HasCredential() {
		a.signedIn = true
		a.view = viewSearch
		a.myBookings.isAdmin = store.Role() == domain.RoleAdmin
	} else {
		a.view = viewSignIn
	}
	return a
}

// role is derived from the stored token on every call, never cached, so a
// swapped or cleared credential takes effect immediately.
func (a App) role() domain.Role {
	return a.session.Role()
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{shimmerTickCmd(), checkVersion(a.version)}
	if a.signedIn {
		cmds = append(cmds, a.search.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.login, _ = a.login.Update(bodyMsg)
		a.search, _ = a.search.Update(bodyMsg)
		a.myBookings, _ = a.myBookings.Update(bodyMsg)
		a.manage, _ = a.manage.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.updateAvailable = msg.latestVersion
		}
		return a, nil

	case signedInMsg:
		if err := a.session.Set(msg.token); err != nil {
			a.login, _ = a.login.Update(loginFailedMsg{err: err})
			return a, nil
		}
		a.signedIn = true
		a.view = viewSearch
		a.myBookings.isAdmin = a.role() == domain.RoleAdmin
		return a, a.search.Init()

	case authExpiredMsg:
		return a.signOut("session expired, sign in again")

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.helpOpen {
			switch msg.String() {
			case "h", "esc", "q":
				a.helpOpen = false
			}
			return a, nil
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "o":
				if a.signedIn {
					return a.signOut("signed out")
				}
			case "1":
				return a.switchTo(viewSearch)
			case "2":
				return a.switchTo(viewBookings)
			case "3":
				return a.switchTo(viewManage)
			case "4":
				return a.switchTo(viewAdmin)
			}
		} else if msg.String() == "esc" && a.view == viewAdmin {
			a.view = viewSearch
			return a, a.search.Init()
		}
	}

	return a.routeToView(msg)
}

// signOut clears the credential and resets to the sign-in view.
func (a App) signOut(status string) (tea.Model, tea.Cmd) {
	a.session.Clear() //nolint:errcheck // token file removal is best-effort
	a.signedIn = false
	a.view = viewSignIn
	a.login = newLoginModel(a.auth)
	a.login.statusMsg = status
	a.search = newSearchModel(a.flights, a.bookings)
	a.myBookings = newBookingsModel(a.bookings, a.flights)
	a.manage = newManageModel(a.flights)
	a.admin = newAdminModel(a.auth)
	return a, nil
}

// switchTo changes the active view. Denied views still switch: the
// renderer shows the denial screen, keeping one access rule for both the
// tab bar and the content.
func (a App) switchTo(v viewID) (tea.Model, tea.Cmd) {
	if !a.signedIn || a.view == v {
		return a, nil
	}
	a.view = v
	if !canAccess(v, a.role()) {
		return a, nil
	}
	switch v {
	case viewSearch:
		return a, a.search.Init()
	case viewBookings:
		a.myBookings.isAdmin = a.role() == domain.RoleAdmin
		return a, a.myBookings.Init()
	case viewManage:
		return a, a.manage.Init()
	case viewAdmin:
		return a, a.admin.Init()
	}
	return a, nil
}

func (a App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewSignIn:
		a.login, cmd = a.login.Update(msg)
	case viewSearch:
		a.search, cmd = a.search.Update(msg)
	case viewBookings:
		a.myBookings, cmd = a.myBookings.Update(msg)
	case viewManage:
		a.manage, cmd = a.manage.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

// isEditing reports whether the active view owns the keyboard, which
// suspends the single-letter global keys.
func (a App) isEditing() bool {
	switch a.view {
	case viewSignIn, viewAdmin:
		return true
	case viewSearch:
		return a.search.searching || a.search.flow.Active()
	case viewManage:
		return a.manage.state != mgNormal
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	// Meta line below logo: role badge, update notice
	metaLine := ""
	if a.signedIn {
		parts := []string{RoleBadge(a.role())}
		if a.updateAvailable != "" {
			parts = append(parts, goldStyle.Render("update available "+a.updateAvailable))
		}
		metaLine = strings.Join(parts, metaStyle.Render(" · "))
	}

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if metaLine != "" {
		metaWidth := lipgloss.Width(metaLine)
		metaPad := (a.width - metaWidth) / 2
		if metaPad < 0 {
			metaPad = 0
		}
		header += "\n" + strings.Repeat(" ", metaPad) + metaLine
	} else {
		header += "\n"
	}

	// Sign-in gate: no tabs until a credential exists.
	if !a.signedIn {
		body := a.login.View()
		help := " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+r", "mode") + "  " + helpEntry("ctrl+c", "quit")
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
		return fmt.Sprintf("%s\n%s\n%s", header, body, help)
	}

	centeredTabs := a.renderTabs()

	var body string
	var help string
	role := a.role()

	if !canAccess(a.view, role) {
		body = deniedView(a.view, role)
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	} else {
		switch a.view {
		case viewSearch:
			body = a.search.View()
			if a.search.flow.Active() {
				help = " " + helpEntry("enter", "confirm") + "  " + helpEntry("esc", "cancel")
			} else {
				help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "route") + "  " + helpEntry("enter", "book") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
			}
		case viewBookings:
			body = a.myBookings.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.myBookings.helpKeys()
		case viewManage:
			body = a.manage.View()
			help = " " + helpEntry("1-4", "tabs") + "  " + a.manage.helpKeys()
		case viewAdmin:
			body = a.admin.View()
			help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "create") + "  " + helpEntry("esc", "back")
		}
	}

	if a.helpOpen {
		body = helpView(role)
		help = " " + helpEntry("esc", "close")
	}

	// Chrome: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}

// renderTabs draws the tab bar. Views the current role may not access are
// left out entirely; their number keys still respond and land on the
// denial screen.
func (a App) renderTabs() string {
	role := a.role()

	type tabEntry struct {
		key string
		v   viewID
	}
	all := []tabEntry{
		{"1", viewSearch},
		{"2", viewBookings},
		{"3", viewManage},
		{"4", viewAdmin},
	}
	var tabs []tabEntry
	for _, t := range all {
		if canAccess(t.v, role) {
			tabs = append(tabs, t)
		}
	}
	if len(tabs) == 0 {
		return ""
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(viewTitle(t.v))
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(viewTitle(t.v))
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}
