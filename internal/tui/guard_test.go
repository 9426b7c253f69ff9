package tui

import (
	"strings"
	"testing"

	"github.com/eazytourist/skyfare/pkg/domain"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		view viewID
		role domain.Role
		want bool
	}{
		{viewSearch, domain.RoleUser, true},
		{viewSearch, domain.RoleAirline, true},
		{viewSearch, domain.RoleAdmin, true},

		{viewBookings, domain.RoleUser, true},
		{viewBookings, domain.RoleAirline, true},
		{viewBookings, domain.RoleAdmin, true},

		{viewManage, domain.RoleUser, false},
		{viewManage, domain.RoleAirline, true},
		{viewManage, domain.RoleAdmin, true},

		{viewAdmin, domain.RoleUser, false},
		{viewAdmin, domain.RoleAirline, false},
		{viewAdmin, domain.RoleAdmin, true},
	}
	for _, tc := range tests {
		t.Run(viewTitle(tc.view)+"_"+string(tc.role), func(t *testing.T) {
			if got := canAccess(tc.view, tc.role); got != tc.want {
				t.Errorf("canAccess(%s, %s) = %v, want %v", viewTitle(tc.view), tc.role, got, tc.want)
			}
		})
	}
}

func TestCanAccessUnknownRoleGetsBaseline(t *testing.T) {
	// A role that never came from ParseRole still only reaches the
	// baseline views.
	odd := domain.Role("SUPERUSER")
	if !canAccess(viewSearch, odd) {
		t.Error("search should stay reachable")
	}
	if canAccess(viewManage, odd) {
		t.Error("manage must not open for an unrecognized role")
	}
	if canAccess(viewAdmin, odd) {
		t.Error("admin must not open for an unrecognized role")
	}
}

func TestDeniedView(t *testing.T) {
	out := deniedView(viewAdmin, domain.RoleUser)
	if !strings.Contains(out, "access denied") {
		t.Errorf("denial screen missing message: %q", out)
	}
	if !strings.Contains(out, "Admin") {
		t.Errorf("denial screen should name the view: %q", out)
	}
}

func TestHelpOverlayGatesViewList(t *testing.T) {
	userHelp := helpView(domain.RoleUser)
	if !strings.Contains(userHelp, "requires AIRLINE") {
		t.Errorf("USER help should mark Manage as locked: %q", userHelp)
	}
	if !strings.Contains(userHelp, "requires ADMIN") {
		t.Errorf("USER help should mark Admin as locked: %q", userHelp)
	}

	adminHelp := helpView(domain.RoleAdmin)
	if strings.Contains(adminHelp, "requires") {
		t.Errorf("ADMIN help should have no locked views: %q", adminHelp)
	}
	if !strings.Contains(adminHelp, "staff accounts") {
		t.Errorf("ADMIN help should describe the admin view: %q", adminHelp)
	}
}
