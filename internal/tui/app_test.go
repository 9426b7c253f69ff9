package tui

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eazytourist/skyfare/internal/session"
	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

// tokenWithRole builds a syntactically valid bearer token carrying a role
// claim.
func tokenWithRole(role string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"role":"` + role + `"}`))
	return "hdr." + payload + ".sig"
}

func newTestApp(t *testing.T, token string) (App, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "token"), "")
	if token != "" {
		if err := store.Set(token); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}
	auth := client.NewAuth("http://127.0.0.1:0", store.Current, time.Second)
	flights := client.NewFlights("http://127.0.0.1:0", store.Current, time.Second)
	bookings := client.NewBookings("http://127.0.0.1:0", store.Current, time.Second)
	a := NewApp(store, auth, flights, bookings, "dev")
	a.width = 80
	a.height = 24
	return a, store
}

func TestAppStartsOnSignInWithoutCredential(t *testing.T) {
	a, _ := newTestApp(t, "")
	if a.signedIn {
		t.Error("app should start signed out without a credential")
	}
	if a.view != viewSignIn {
		t.Errorf("view = %v, want viewSignIn", a.view)
	}
	if out := a.View(); !strings.Contains(out, "Sign in") {
		t.Errorf("signed-out view missing sign-in form: %q", out)
	}
}

func TestAppStartsSignedInWithCredential(t *testing.T) {
	a, _ := newTestApp(t, tokenWithRole("USER"))
	if !a.signedIn {
		t.Error("app should start signed in with a stored credential")
	}
	if a.view != viewSearch {
		t.Errorf("view = %v, want viewSearch", a.view)
	}
}

func TestTabBarHidesDeniedViews(t *testing.T) {
	tests := []struct {
		role    string
		visible []string
		hidden  []string
	}{
		{"USER", []string{"Flights", "Bookings"}, []string{"Manage", "Admin"}},
		{"AIRLINE", []string{"Flights", "Bookings", "Manage"}, []string{"Admin"}},
		{"ADMIN", []string{"Flights", "Bookings", "Manage", "Admin"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			a, _ := newTestApp(t, tokenWithRole(tc.role))
			tabs := a.renderTabs()
			for _, name := range tc.visible {
				if !strings.Contains(tabs, name) {
					t.Errorf("%s tab missing for %s: %q", name, tc.role, tabs)
				}
			}
			for _, name := range tc.hidden {
				if strings.Contains(tabs, name) {
					t.Errorf("%s tab should be hidden for %s: %q", name, tc.role, tabs)
				}
			}
		})
	}
}

func TestDeepLinkToDeniedViewShowsDenial(t *testing.T) {
	a, _ := newTestApp(t, tokenWithRole("USER"))

	// The number key still switches; the content guard catches it.
	model, _ := a.Update(key("4"))
	a = model.(App)
	if a.view != viewAdmin {
		t.Fatalf("view = %v, want viewAdmin", a.view)
	}
	if out := a.View(); !strings.Contains(out, "access denied") {
		t.Errorf("denied view not rendered: %q", out)
	}
}

func TestAdminReachesAdminView(t *testing.T) {
	a, _ := newTestApp(t, tokenWithRole("ADMIN"))
	model, _ := a.Update(key("4"))
	a = model.(App)
	if out := a.View(); strings.Contains(out, "access denied") {
		t.Error("admin should reach the admin view")
	}
}

func TestAuthExpiryClearsCredentialAndForcesSignIn(t *testing.T) {
	a, store := newTestApp(t, tokenWithRole("ADMIN"))

	model, _ := a.Update(authExpiredMsg{})
	a = model.(App)

	if a.signedIn {
		t.Error("app should be signed out after auth expiry")
	}
	if a.view != viewSignIn {
		t.Errorf("view = %v, want viewSignIn", a.view)
	}
	if store.HasCredential() {
		t.Error("credential should be cleared on auth expiry")
	}
	if store.Role() != domain.RoleUser {
		t.Errorf("Role after clear = %q, want USER", store.Role())
	}
	if out := a.View(); !strings.Contains(out, "session expired") {
		t.Errorf("sign-in view missing expiry notice: %q", out)
	}
}

func TestSignedInMsgStoresTokenAndUnlocksViews(t *testing.T) {
	a, store := newTestApp(t, "")

	model, cmd := a.Update(signedInMsg{token: tokenWithRole("AIRLINE")})
	a = model.(App)

	if !a.signedIn {
		t.Error("app should be signed in after signedInMsg")
	}
	if a.view != viewSearch {
		t.Errorf("view = %v, want viewSearch", a.view)
	}
	if cmd == nil {
		t.Error("sign-in should kick off the flight load")
	}
	if got := store.Role(); got != domain.RoleAirline {
		t.Errorf("stored role = %q, want AIRLINE", got)
	}
	if !canAccess(viewManage, store.Role()) {
		t.Error("airline should now reach the manage view")
	}
}

func TestLogoutKey(t *testing.T) {
	a, store := newTestApp(t, tokenWithRole("USER"))

	model, _ := a.Update(key("o"))
	a = model.(App)

	if a.signedIn {
		t.Error("o should sign out")
	}
	if store.HasCredential() {
		t.Error("credential should be cleared on logout")
	}
}

func TestRoleRecomputedFromStore(t *testing.T) {
	a, store := newTestApp(t, tokenWithRole("USER"))
	if a.role() != domain.RoleUser {
		t.Fatalf("role = %q, want USER", a.role())
	}

	// Swapping the stored token changes the derived role on the next read.
	if err := store.Set(tokenWithRole("ADMIN")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if a.role() != domain.RoleAdmin {
		t.Errorf("role = %q, want ADMIN after token swap", a.role())
	}
}

func TestGlobalKeysSuspendedWhileEditing(t *testing.T) {
	a, _ := newTestApp(t, tokenWithRole("USER"))
	a.search.searching = true

	// "1".."4" and "q" must type into the form, not navigate or quit.
	model, cmd := a.Update(key("4"))
	a = model.(App)
	if a.view != viewSearch {
		t.Errorf("view = %v, want viewSearch (key should go to the form)", a.view)
	}
	if cmd != nil {
		t.Error("typing into the form should not produce a command")
	}
	if got := a.search.fields[a.search.searchFocus]; got != "4" {
		t.Errorf("form field = %q, want the typed character", got)
	}
}
