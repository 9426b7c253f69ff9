package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// bookingBackend serves a one-flight inventory and counts requests.
type bookingBackend struct {
	listCalls    atomic.Int64
	bookingCalls atomic.Int64
	bookingQuery atomic.Value // url.Values of the last booking request
	failBooking  bool
}

func (b *bookingBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/flights":
			b.listCalls.Add(1)
			json.NewEncoder(w).Encode([]domain.Flight{{ //nolint:errcheck
				ID: 7, FlightNumber: "SF-204", Origin: "Delhi", Destination: "Mumbai",
				Price: 100, Available: true, AvailableSeats: 3,
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/bookings":
			b.bookingCalls.Add(1)
			b.bookingQuery.Store(r.URL.Query())
			if b.failBooking {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"message": "not enough seats"}) //nolint:errcheck
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.Booking{ //nolint:errcheck
				ID: 31, FlightID: 7, SeatsBooked: 2, TotalPrice: 200,
			})
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestSearchModel(t *testing.T, backend *bookingBackend) (searchModel, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	tok := staticTestToken("tok")
	flights := client.NewFlights(srv.URL, tok, time.Second)
	bookings := client.NewBookings(srv.URL, tok, time.Second)
	m := newSearchModel(flights, bookings)
	msg := m.load()()
	m, _ = m.Update(msg)
	return m, srv
}

func staticTestToken(tok string) client.TokenSource {
	return func() string { return tok }
}

func TestBookingScenario(t *testing.T) {
	backend := &bookingBackend{}
	m, _ := newTestSearchModel(t, backend)

	if len(m.list) != 1 {
		t.Fatalf("got %d flights, want 1", len(m.list))
	}

	// Select the flight, bump to 2 seats, review.
	m, _ = m.Update(key("enter"))
	if m.flow.state != flowSelecting {
		t.Fatalf("state = %v, want flowSelecting", m.flow.state)
	}
	m, _ = m.Update(key("k"))
	if m.flow.seats != 2 {
		t.Fatalf("seats = %d, want 2", m.flow.seats)
	}
	m, _ = m.Update(key("enter"))
	if m.flow.state != flowConfirming {
		t.Fatalf("state = %v, want flowConfirming", m.flow.state)
	}
	if got := formatMoney(m.flow.Total()); got != "$200.00" {
		t.Errorf("advisory total = %q, want $200.00", got)
	}

	// Confirm fires exactly one request.
	m, cmd := m.Update(key("enter"))
	if m.flow.state != flowSubmitting {
		t.Fatalf("state = %v, want flowSubmitting", m.flow.state)
	}
	if cmd == nil {
		t.Fatal("confirm should return a command")
	}
	result := cmd()
	if got := backend.bookingCalls.Load(); got != 1 {
		t.Fatalf("booking requests = %d, want exactly 1", got)
	}
	query := backend.bookingQuery.Load().(interface{ Get(string) string })
	if query.Get("flightId") != "7" || query.Get("seats") != "2" {
		t.Errorf("booking query = flightId=%q seats=%q, want 7/2", query.Get("flightId"), query.Get("seats"))
	}

	// Keys mid-submit are dead.
	m, _ = m.Update(key("esc"))
	if m.flow.state != flowSubmitting {
		t.Errorf("esc mid-submit changed state: %v", m.flow.state)
	}

	// Success settles and forces a flight refresh.
	listBefore := backend.listCalls.Load()
	m, refresh := m.Update(result)
	if m.flow.state != flowSettled {
		t.Fatalf("state = %v, want flowSettled", m.flow.state)
	}
	if m.flow.booking == nil || m.flow.booking.TotalPrice != 200 {
		t.Errorf("settled booking = %+v, want server total 200", m.flow.booking)
	}
	if refresh == nil {
		t.Fatal("settle should return a refresh command")
	}
	refreshMsg := refresh()
	if backend.listCalls.Load() != listBefore+1 {
		t.Error("flight list was not re-fetched after a confirmed booking")
	}
	m, _ = m.Update(refreshMsg)

	// Dismiss the summary.
	m, _ = m.Update(key("enter"))
	if m.flow.state != flowBrowsing {
		t.Errorf("state = %v, want flowBrowsing after acknowledge", m.flow.state)
	}
}

func TestBookingFailureKeepsAttempt(t *testing.T) {
	backend := &bookingBackend{failBooking: true}
	m, _ := newTestSearchModel(t, backend)

	m, _ = m.Update(key("enter"))
	m, _ = m.Update(key("enter"))
	m, cmd := m.Update(key("enter"))
	result := cmd()

	listBefore := backend.listCalls.Load()
	m, _ = m.Update(result)
	if m.flow.state != flowConfirming {
		t.Fatalf("state = %v, want flowConfirming after failure", m.flow.state)
	}
	if m.flow.failMsg != "not enough seats" {
		t.Errorf("failMsg = %q, want the server message verbatim", m.flow.failMsg)
	}
	if backend.listCalls.Load() != listBefore {
		t.Error("failed booking must not refresh the flight list")
	}

	// Abandon without another request.
	m, _ = m.Update(key("esc"))
	if m.flow.state != flowBrowsing {
		t.Errorf("state = %v, want flowBrowsing after cancel", m.flow.state)
	}
	if backend.bookingCalls.Load() != 1 {
		t.Errorf("booking requests = %d, cancel must not fire another", backend.bookingCalls.Load())
	}
}

func TestSearchValidationBlocksInline(t *testing.T) {
	// nil clients: any network call would panic, proving validation stops
	// before the request.
	m := searchModel{searching: true}

	m.fields[searchFieldFrom] = "Delhi"
	m.fields[searchFieldTo] = ""
	m, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Fatal("missing destination must not fire a request")
	}
	if m.statusMsg == "" {
		t.Error("missing destination should show a validation message")
	}

	m.fields[searchFieldTo] = "delhi"
	m, cmd = m.Update(key("enter"))
	if cmd != nil {
		t.Fatal("same origin and destination must not fire a request")
	}
	if m.statusMsg != "origin and destination must differ" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if !m.searching {
		t.Error("the form should stay open on validation failure")
	}
}

func TestSearchAppliesRouteFilter(t *testing.T) {
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/flights/search" {
			lastQuery.Store(r.URL.Query())
		}
		json.NewEncoder(w).Encode([]domain.Flight{}) //nolint:errcheck
	}))
	defer srv.Close()

	flights := client.NewFlights(srv.URL, nil, time.Second)
	m := newSearchModel(flights, nil)
	m.searching = true
	m.fields[searchFieldFrom] = "Delhi"
	m.fields[searchFieldTo] = "Mumbai"

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("valid route should fire a search")
	}
	if m.searching {
		t.Error("the form should close once the search fires")
	}
	m.Update(cmd())

	q := lastQuery.Load().(interface{ Get(string) string })
	if q.Get("source") != "Delhi" || q.Get("destination") != "Mumbai" {
		t.Errorf("search query = source=%q destination=%q", q.Get("source"), q.Get("destination"))
	}
}

func TestSearchAuthFailureExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	flights := client.NewFlights(srv.URL, staticTestToken("stale"), time.Second)
	m := newSearchModel(flights, nil)
	msg := m.load()()

	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("401 should produce a command")
	}
	if _, ok := cmd().(authExpiredMsg); !ok {
		t.Errorf("cmd produced %T, want authExpiredMsg", cmd())
	}
}

func TestUnbookableFlightNotSelectable(t *testing.T) {
	m := searchModel{
		list: []domain.Flight{{ID: 1, Available: true, AvailableSeats: 0}},
	}
	m, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Fatal("selecting a sold-out flight must not fire anything")
	}
	if m.flow.Active() {
		t.Error("flow should stay in Browsing for a sold-out flight")
	}
	if m.statusMsg == "" {
		t.Error("expected an inline notice for an unbookable flight")
	}
}
