package tui

import (
	"github.com/eazytourist/skyfare/pkg/domain"
)

// viewID identifies a top-level view.
type viewID int

const (
	viewSignIn viewID = iota
	viewSearch
	viewBookings
	viewManage
	viewAdmin
)

// canAccess is the single access rule for every view. The tab bar hides
// entries it denies and the renderer re-checks it before drawing, so a view
// reached by any other path still lands on the denial screen.
func canAccess(v viewID, role domain.Role) bool {
	switch v {
	case viewSignIn, viewSearch, viewBookings:
		return true
	case viewManage:
		return role.ManagesFlights()
	case viewAdmin:
		return role == domain.RoleAdmin
	}
	return false
}

// viewTitle returns the tab label for a view.
func viewTitle(v viewID) string {
	switch v {
	case viewSearch:
		return "Flights"
	case viewBookings:
		return "Bookings"
	case viewManage:
		return "Manage"
	case viewAdmin:
		return "Admin"
	}
	return ""
}

// viewBlurb returns the one-line description shown on the help overlay.
func viewBlurb(v viewID) string {
	switch v {
	case viewSearch:
		return "Search routes and book seats"
	case viewBookings:
		return "Your bookings, payment and references"
	case viewManage:
		return "Fleet schedule and seat inventory"
	case viewAdmin:
		return "Create staff accounts"
	}
	return ""
}

// requiredRole returns the lowest role that unlocks a gated view.
func requiredRole(v viewID) domain.Role {
	switch v {
	case viewManage:
		return domain.RoleAirline
	case viewAdmin:
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// deniedView is what renders in place of a view the current role may not
// see.
func deniedView(v viewID, role domain.Role) string {
	return "\n " + rejectStyle.Render("access denied") + "\n " +
		dimStyle.Render(viewTitle(v)+" is not available to "+string(role)+" accounts") + "\n"
}
