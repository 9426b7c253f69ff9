package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

type searchField int

const (
	searchFieldFrom searchField = iota
	searchFieldTo
	numSearchFields
)

type flightsLoadedMsg struct {
	flights []domain.Flight
	err     error
}

type bookingResultMsg struct {
	booking *domain.Booking
	err     error
}

// searchModel is the flight list with route search and the booking flow.
type searchModel struct {
	flights  *client.Flights
	bookings *client.Bookings

	list      []domain.Flight
	cursor    int
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int

	// route filter
	searching   bool // typing in the route fields
	fields      [numSearchFields]string
	searchFocus searchField
	routeFrom   string // applied filter, empty when listing everything
	routeTo     string

	flow bookingFlow
}

func newSearchModel(f *client.Flights, b *client.Bookings) searchModel {
	return searchModel{flights: f, bookings: b, loading: true}
}

func (m searchModel) Init() tea.Cmd {
	return m.load()
}

// load fetches the flight list, honoring the applied route filter.
func (m searchModel) load() tea.Cmd {
	c := m.flights
	from, to := m.routeFrom, m.routeTo
	return func() tea.Msg {
		var flights []domain.Flight
		var err error
		if from != "" {
			flights, err = c.Search(context.Background(), from, to)
		} else {
			flights, err = c.List(context.Background())
		}
		return flightsLoadedMsg{flights: flights, err: err}
	}
}

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case flightsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list = msg.flights
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}
		return m, nil

	case bookingResultMsg:
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.flow.Fail(serverMessage(msg.err))
			return m, nil
		}
		m.flow.Settle(msg.booking)
		// Seat counts changed server-side; the list must reflect it.
		m.loading = true
		return m, m.load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearchFields(msg)
		}
		if m.flow.Active() {
			return m.updateFlow(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// serverMessage unwraps an HTTPError so the flow shows the backend's text,
// not the wrapped chain.
func serverMessage(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}

func (m searchModel) updateSearchFields(msg tea.KeyMsg) (searchModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "up", "shift+tab":
		m.searchFocus = (m.searchFocus + 1) % numSearchFields
	case "enter":
		from := strings.TrimSpace(m.fields[searchFieldFrom])
		to := strings.TrimSpace(m.fields[searchFieldTo])
		if from == "" || to == "" {
			m.statusMsg = "both origin and destination are required"
			return m, nil
		}
		if strings.EqualFold(from, to) {
			m.statusMsg = "origin and destination must differ"
			return m, nil
		}
		m.searching = false
		m.routeFrom = from
		m.routeTo = to
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "esc":
		m.searching = false
		m.fields = [numSearchFields]string{}
		m.searchFocus = searchFieldFrom
	default:
		m.fields[m.searchFocus] = editRune(m.fields[m.searchFocus], msg.String())
	}
	return m, nil
}

func (m searchModel) updateList(msg tea.KeyMsg) (searchModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
		m.fields[searchFieldFrom] = m.routeFrom
		m.fields[searchFieldTo] = m.routeTo
		m.searchFocus = searchFieldFrom
	case "esc":
		if m.routeFrom != "" {
			m.routeFrom = ""
			m.routeTo = ""
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "enter":
		if m.cursor < len(m.list) {
			flight := m.list[m.cursor]
			if !m.flow.SelectFlight(&flight) {
				m.statusMsg = "flight is not bookable"
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m searchModel) updateFlow(msg tea.KeyMsg) (searchModel, tea.Cmd) {
	switch m.flow.state {
	case flowSelecting:
		switch msg.String() {
		case "j", "down", "-":
			m.flow.AdjustSeats(-1)
		case "k", "up", "+":
			m.flow.AdjustSeats(1)
		case "enter":
			m.flow.ConfirmSeats()
		case "esc":
			m.flow.Cancel()
		}

	case flowConfirming:
		switch msg.String() {
		case "enter", "y":
			if m.flow.Submit() {
				return m, m.submitBooking()
			}
		case "esc", "n":
			m.flow.Cancel()
		}

	case flowSubmitting:
		// input locked until the server answers

	case flowSettled:
		switch msg.String() {
		case "enter", "esc":
			m.flow.Acknowledge()
		}
	}
	return m, nil
}

// submitBooking fires the single booking request for the flow's flight and
// seat count.
func (m searchModel) submitBooking() tea.Cmd {
	c := m.bookings
	flightID := m.flow.flight.ID
	seats := m.flow.seats
	return func() tea.Msg {
		booking, err := c.Create(context.Background(), flightID, seats)
		return bookingResultMsg{booking: booking, err: err}
	}
}

func (m searchModel) View() string {
	var b strings.Builder

	// Header: route filter or search form
	if m.searching {
		b.WriteString(m.viewSearchForm())
	} else if m.routeFrom != "" {
		b.WriteString(" " + searchStyle.Render(m.routeFrom+" → "+m.routeTo) +
			"  " + dimStyle.Render("esc to clear") + "\n")
	} else {
		b.WriteString(" " + dimStyle.Render("/ search by route...") + "\n")
	}

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + rejectStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}

	b.WriteString(m.viewFlightList())

	if m.flow.Active() {
		b.WriteString(m.viewFlow())
	}

	return truncateToHeight(b.String(), m.height)
}

func (m searchModel) viewSearchForm() string {
	var b strings.Builder
	labels := [numSearchFields]string{"from", "to"}
	for i := searchField(0); i < numSearchFields; i++ {
		cursor := " "
		style := metaStyle
		value := m.fields[i]
		if i == m.searchFocus {
			cursor = ">"
			style = selectedStyle
			value += "█"
		}
		b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " + value + "  ")
	}
	b.WriteString(dimStyle.Render("enter to search · esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m searchModel) viewFlightList() string {
	if len(m.list) == 0 {
		return " " + dimStyle.Render("no flights found")
	}

	var b strings.Builder

	maxVisible := m.height - 8
	if maxVisible < 4 {
		maxVisible = 4
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.list) && i < start+maxVisible; i++ {
		f := m.list[i]

		cursor := "  "
		rowStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			rowStyle = normalStyle.Bold(true)
		}

		route := fmt.Sprintf("%-18s", truncStr(f.Origin+" → "+f.Destination, 18))
		num := fmt.Sprintf("%-8s", truncStr(f.FlightNumber, 8))
		dep := formatSchedule(f.DepartureTime)

		var seatCol string
		switch {
		case !f.Available:
			seatCol = rejectStyle.Render("unavailable")
		case f.AvailableSeats == 0:
			seatCol = rejectStyle.Render("sold out")
		default:
			seatCol = okStyle.Render(fmt.Sprintf("%d seats", f.AvailableSeats))
		}

		line := cursor + rowStyle.Render(num) + " " + rowStyle.Render(route) + " " +
			metaStyle.Render(dep) + "  " + goldStyle.Render(formatMoney(f.Price)) + "  " + seatCol
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// viewFlow renders the booking panel under the list for every flow state
// past Browsing.
func (m searchModel) viewFlow() string {
	f := m.flow.flight
	if f == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── BOOK "+f.FlightNumber+" ──") + "\n")
	leg := formatSchedule(f.DepartureTime) + " → " + formatSchedule(f.ArrivalTime)
	if dur := formatDuration(f.DepartureTime, f.ArrivalTime); dur != "" {
		leg += " (" + dur + ")"
	}
	b.WriteString("   " + normalStyle.Render(f.Origin+" → "+f.Destination) +
		"  " + metaStyle.Render(leg) + "\n")

	switch m.flow.state {
	case flowSelecting:
		fmt.Fprintf(&b, "   seats: %s  %s\n",
			selectedStyle.Render(fmt.Sprintf("%d", m.flow.seats)),
			dimStyle.Render(fmt.Sprintf("(1-%d, k/j to adjust)", m.flow.SeatLimit())))
		b.WriteString("   " + metaStyle.Render("total "+formatMoney(m.flow.Total())) + "\n")
		b.WriteString("   " + dimStyle.Render("enter to review · esc to cancel") + "\n")

	case flowConfirming:
		fmt.Fprintf(&b, "   %s × %d = %s\n",
			goldStyle.Render(formatMoney(f.Price)), m.flow.seats,
			selectedStyle.Render(formatMoney(m.flow.Total())))
		if m.flow.failMsg != "" {
			b.WriteString("   " + rejectStyle.Render(m.flow.failMsg) + "\n")
		}
		b.WriteString("   " + dimStyle.Render("enter to confirm · esc to cancel") + "\n")

	case flowSubmitting:
		b.WriteString("   " + dimStyle.Render("booking...") + "\n")

	case flowSettled:
		bk := m.flow.booking
		if bk != nil {
			fmt.Fprintf(&b, "   %s  booking #%d · %d seats · %s\n",
				okStyle.Render("confirmed"), bk.ID, bk.SeatsBooked,
				selectedStyle.Render(formatMoney(bk.TotalPrice)))
		} else {
			b.WriteString("   " + okStyle.Render("confirmed") + "\n")
		}
		b.WriteString("   " + dimStyle.Render("enter to continue") + "\n")
	}

	return b.String()
}
