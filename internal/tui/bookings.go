package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

type bookingsLoadedMsg struct {
	all      bool
	bookings []domain.Booking
	err      error
}

type bookingFlightMsg struct {
	flightID int64
	flight   *domain.Flight
	err      error
}

type paymentMsg struct {
	bookingID int64
	result    string
	err       error
}

type copyRefMsg struct{ err error }

// bookingsModel lists the caller's bookings, enriched with flight details
// fetched per booking. ADMIN accounts can flip to the full ledger.
type bookingsModel struct {
	bookings *client.Bookings
	flights  *client.Flights

	list          []domain.Booking
	flightDetails map[int64]*domain.Flight
	cursor        int
	showAll       bool // admin ledger instead of own bookings
	isAdmin       bool
	paying        bool
	loading       bool
	err           error
	statusMsg     string
	width         int
	height        int
}

func newBookingsModel(b *client.Bookings, f *client.Flights) bookingsModel {
	return bookingsModel{
		bookings:      b,
		flights:       f,
		flightDetails: make(map[int64]*domain.Flight),
		loading:       true,
	}
}

func (m bookingsModel) Init() tea.Cmd {
	return m.load()
}

func (m bookingsModel) load() tea.Cmd {
	c := m.bookings
	all := m.showAll
	return func() tea.Msg {
		var bookings []domain.Booking
		var err error
		if all {
			bookings, err = c.All(context.Background())
		} else {
			bookings, err = c.My(context.Background())
		}
		return bookingsLoadedMsg{all: all, bookings: bookings, err: err}
	}
}

func (m bookingsModel) loadFlight(id int64) tea.Cmd {
	c := m.flights
	return func() tea.Msg {
		flight, err := c.Get(context.Background(), id)
		return bookingFlightMsg{flightID: id, flight: flight, err: err}
	}
}

func (m bookingsModel) Update(msg tea.Msg) (bookingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list = msg.bookings
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}
		// Pull route details for flights we haven't seen yet.
		var cmds []tea.Cmd
		for _, bk := range m.list {
			if _, ok := m.flightDetails[bk.FlightID]; !ok {
				cmds = append(cmds, m.loadFlight(bk.FlightID))
			}
		}
		if len(cmds) > 0 {
			return m, tea.Batch(cmds...)
		}
		return m, nil

	case bookingFlightMsg:
		if msg.err == nil {
			m.flightDetails[msg.flightID] = msg.flight
		}
		return m, nil

	case paymentMsg:
		m.paying = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.statusMsg = serverMessage(msg.err)
			return m, nil
		}
		m.statusMsg = msg.result
		return m, nil

	case copyRefMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "reference copied"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m bookingsModel) handleKey(msg tea.KeyMsg) (bookingsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "p":
		if m.paying || m.showAll || m.cursor >= len(m.list) {
			return m, nil
		}
		bk := m.list[m.cursor]
		m.paying = true
		c := m.bookings
		return m, func() tea.Msg {
			result, err := c.Pay(context.Background(), bk.ID, bk.TotalPrice)
			return paymentMsg{bookingID: bk.ID, result: result, err: err}
		}
	case "c":
		if m.cursor < len(m.list) {
			ref := fmt.Sprintf("SKY-%d", m.list[m.cursor].ID)
			return m, func() tea.Msg {
				return copyRefMsg{err: clipboard.WriteAll(ref)}
			}
		}
	case "a":
		if m.isAdmin {
			m.showAll = !m.showAll
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m bookingsModel) View() string {
	var b strings.Builder

	title := "── YOUR BOOKINGS ──"
	if m.showAll {
		title = "── ALL BOOKINGS ──"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(title) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.list) == 0 {
		b.WriteString(" " + dimStyle.Render("no bookings yet"))
		return b.String()
	}

	maxVisible := m.height - 6
	if maxVisible < 4 {
		maxVisible = 4
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.list) && i < start+maxVisible; i++ {
		bk := m.list[i]

		cursor := "  "
		rowStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			rowStyle = normalStyle.Bold(true)
		}

		ref := rowStyle.Render(fmt.Sprintf("SKY-%-6d", bk.ID))

		routeCol := metaStyle.Render(fmt.Sprintf("flight %d", bk.FlightID))
		if f, ok := m.flightDetails[bk.FlightID]; ok {
			routeCol = rowStyle.Render(f.FlightNumber) + " " +
				metaStyle.Render(truncStr(f.Origin+" → "+f.Destination, 20))
		}

		line := " " + cursor + ref + " " + routeCol + "  " +
			metaStyle.Render(fmt.Sprintf("%d seats", bk.SeatsBooked)) + "  " +
			goldStyle.Render(formatMoney(bk.TotalPrice)) + "  " +
			metaStyle.Render(formatTime(bk.BookingTime))
		if m.showAll && bk.UserEmail != "" {
			line += "  " + dimStyle.Render(bk.UserEmail)
		}
		b.WriteString(line + "\n")
	}

	if m.paying {
		b.WriteString("\n " + dimStyle.Render("processing payment...") + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}

// helpKeys returns context-sensitive help for the bookings view.
func (m bookingsModel) helpKeys() string {
	keys := helpEntry("j/k", "nav") + "  " + helpEntry("p", "pay") + "  " + helpEntry("c", "copy ref") + "  " + helpEntry("r", "reload")
	if m.isAdmin {
		keys += "  " + helpEntry("a", "all/mine")
	}
	return keys
}
