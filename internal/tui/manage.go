package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

// scheduleLayout is the format for departure and arrival form fields.
const scheduleLayout = "2006-01-02 15:04"

// manageState is the state machine for flight CRUD interactions.
type manageState int

const (
	mgNormal   manageState = iota
	mgAdding               // creating a new flight
	mgEditing              // editing the selected flight
	mgDeleting             // delete confirmation
	mgSeats                // inline seat count edit
)

type manageField int

const (
	mgFieldNumber manageField = iota
	mgFieldOrigin
	mgFieldDestination
	mgFieldDeparture
	mgFieldArrival
	mgFieldPrice
	mgFieldSeats
	mgFieldAvailable
	numManageFields
)

// -- messages --

type manageFlightsMsg struct {
	flights []domain.Flight
	err     error
}

type flightSavedMsg struct {
	flight *domain.Flight
	err    error
}

type flightDeletedMsg struct {
	confirmation string
	err          error
}

type seatsUpdatedMsg struct {
	flight *domain.Flight
	err    error
}

// -- model --

type manageModel struct {
	flights *client.Flights

	list      []domain.Flight
	cursor    int
	state     manageState
	fields    [numManageFields]string
	focus     manageField
	seatInput string // inline seats edit buffer
	loading   bool
	saving    bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newManageModel(f *client.Flights) manageModel {
	return manageModel{flights: f, loading: true}
}

func (m manageModel) Init() tea.Cmd {
	return m.load()
}

func (m manageModel) load() tea.Cmd {
	c := m.flights
	return func() tea.Msg {
		flights, err := c.List(context.Background())
		return manageFlightsMsg{flights: flights, err: err}
	}
}

func (m manageModel) Update(msg tea.Msg) (manageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case manageFlightsMsg:
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

	case flightSavedMsg:
		m.saving = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.statusMsg = serverMessage(msg.err)
			return m, nil
		}
		m.state = mgNormal
		m.fields = [numManageFields]string{}
		m.statusMsg = "saved"
		m.loading = true
		return m, m.load()

	case flightDeletedMsg:
		m.saving = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.statusMsg = serverMessage(msg.err)
			m.state = mgNormal
			return m, nil
		}
		m.state = mgNormal
		m.statusMsg = msg.confirmation
		m.loading = true
		return m, m.load()

	case seatsUpdatedMsg:
		m.saving = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.statusMsg = serverMessage(msg.err)
			return m, nil
		}
		m.state = mgNormal
		m.seatInput = ""
		m.statusMsg = "seats updated"
		m.loading = true
		return m, m.load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		m.statusMsg = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m manageModel) handleKey(msg tea.KeyMsg) (manageModel, tea.Cmd) {
	switch m.state {
	case mgAdding, mgEditing:
		return m.handleKeyForm(msg)
	case mgDeleting:
		return m.handleKeyDeleting(msg)
	case mgSeats:
		return m.handleKeySeats(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.state = mgAdding
		m.fields = [numManageFields]string{}
		m.fields[mgFieldAvailable] = "yes"
		m.focus = mgFieldNumber
	case "e":
		if m.cursor < len(m.list) {
			m.state = mgEditing
			m.fields = fieldsFromFlight(m.list[m.cursor])
			m.focus = mgFieldNumber
		}
	case "d":
		if m.cursor < len(m.list) {
			m.state = mgDeleting
		}
	case "s":
		if m.cursor < len(m.list) {
			m.state = mgSeats
			m.seatInput = strconv.Itoa(m.list[m.cursor].AvailableSeats)
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m manageModel) handleKeyForm(msg tea.KeyMsg) (manageModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numManageFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numManageFields) % numManageFields
	case "esc":
		m.state = mgNormal
		m.fields = [numManageFields]string{}
	case "ctrl+s", "enter":
		return m.submitForm()
	default:
		if m.focus == mgFieldAvailable {
			// h/l toggles availability
			if key := msg.String(); key == "h" || key == "l" || key == " " {
				if m.fields[mgFieldAvailable] == "yes" {
					m.fields[mgFieldAvailable] = "no"
				} else {
					m.fields[mgFieldAvailable] = "yes"
				}
			}
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m manageModel) handleKeyDeleting(msg tea.KeyMsg) (manageModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.cursor < len(m.list) {
			id := m.list[m.cursor].ID
			c := m.flights
			m.saving = true
			return m, func() tea.Msg {
				confirmation, err := c.Delete(context.Background(), id)
				return flightDeletedMsg{confirmation: confirmation, err: err}
			}
		}
		m.state = mgNormal
	case "n", "N", "esc":
		m.state = mgNormal
	}
	return m, nil
}

func (m manageModel) handleKeySeats(msg tea.KeyMsg) (manageModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		seats, err := strconv.Atoi(strings.TrimSpace(m.seatInput))
		if err != nil || seats < 0 {
			m.statusMsg = "seats must be a non-negative number"
			return m, nil
		}
		if m.cursor < len(m.list) {
			id := m.list[m.cursor].ID
			c := m.flights
			m.saving = true
			return m, func() tea.Msg {
				flight, err := c.UpdateSeats(context.Background(), id, seats)
				return seatsUpdatedMsg{flight: flight, err: err}
			}
		}
		m.state = mgNormal
	case "esc":
		m.state = mgNormal
		m.seatInput = ""
	default:
		m.seatInput = editRune(m.seatInput, msg.String())
	}
	return m, nil
}

// fieldsFromFlight fills the form from an existing flight.
func fieldsFromFlight(f domain.Flight) [numManageFields]string {
	var fields [numManageFields]string
	fields[mgFieldNumber] = f.FlightNumber
	fields[mgFieldOrigin] = f.Origin
	fields[mgFieldDestination] = f.Destination
	if !f.DepartureTime.IsZero() {
		fields[mgFieldDeparture] = f.DepartureTime.Format(scheduleLayout)
	}
	if !f.ArrivalTime.IsZero() {
		fields[mgFieldArrival] = f.ArrivalTime.Format(scheduleLayout)
	}
	fields[mgFieldPrice] = strconv.FormatFloat(f.Price, 'f', 2, 64)
	fields[mgFieldSeats] = strconv.Itoa(f.AvailableSeats)
	if f.Available {
		fields[mgFieldAvailable] = "yes"
	} else {
		fields[mgFieldAvailable] = "no"
	}
	return fields
}

// parseForm validates the form and builds the request attributes.
func (m manageModel) parseForm() (client.FlightAttrs, error) {
	number := strings.TrimSpace(m.fields[mgFieldNumber])
	origin := strings.TrimSpace(m.fields[mgFieldOrigin])
	destination := strings.TrimSpace(m.fields[mgFieldDestination])
	if number == "" || origin == "" || destination == "" {
		return client.FlightAttrs{}, fmt.Errorf("number, origin and destination are required")
	}
	if strings.EqualFold(origin, destination) {
		return client.FlightAttrs{}, fmt.Errorf("origin and destination must differ")
	}

	departure, err := time.Parse(scheduleLayout, strings.TrimSpace(m.fields[mgFieldDeparture]))
	if err != nil {
		return client.FlightAttrs{}, fmt.Errorf("departure must be %s", scheduleLayout)
	}
	arrival, err := time.Parse(scheduleLayout, strings.TrimSpace(m.fields[mgFieldArrival]))
	if err != nil {
		return client.FlightAttrs{}, fmt.Errorf("arrival must be %s", scheduleLayout)
	}
	if !arrival.After(departure) {
		return client.FlightAttrs{}, fmt.Errorf("arrival must be after departure")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(m.fields[mgFieldPrice]), 64)
	if err != nil || price < 0 {
		return client.FlightAttrs{}, fmt.Errorf("price must be a non-negative number")
	}
	seats, err := strconv.Atoi(strings.TrimSpace(m.fields[mgFieldSeats]))
	if err != nil || seats < 0 {
		return client.FlightAttrs{}, fmt.Errorf("seats must be a non-negative number")
	}

	return client.FlightAttrs{
		FlightNumber:   number,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Price:          price,
		Available:      m.fields[mgFieldAvailable] == "yes",
		AvailableSeats: seats,
	}, nil
}

func (m manageModel) submitForm() (manageModel, tea.Cmd) {
	attrs, err := m.parseForm()
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}

	c := m.flights
	m.saving = true
	if m.state == mgEditing && m.cursor < len(m.list) {
		id := m.list[m.cursor].ID
		return m, func() tea.Msg {
			flight, err := c.Update(context.Background(), id, attrs)
			return flightSavedMsg{flight: flight, err: err}
		}
	}
	return m, func() tea.Msg {
		flight, err := c.Create(context.Background(), attrs)
		return flightSavedMsg{flight: flight, err: err}
	}
}

func (m manageModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── FLEET %d flights ──", len(m.list))) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.state == mgAdding || m.state == mgEditing {
		b.WriteString(m.viewForm())
		return truncateToHeight(b.String(), m.height)
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
		b.WriteString(" " + dimStyle.Render("no flights yet · press a to add one"))
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
		f := m.list[i]

		cursor := "  "
		rowStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			rowStyle = normalStyle.Bold(true)
		}

		avail := okStyle.Render("on")
		if !f.Available {
			avail = rejectStyle.Render("off")
		}

		line := " " + cursor + rowStyle.Render(fmt.Sprintf("%-8s", truncStr(f.FlightNumber, 8))) + " " +
			rowStyle.Render(fmt.Sprintf("%-18s", truncStr(f.Origin+" → "+f.Destination, 18))) + " " +
			metaStyle.Render(formatSchedule(f.DepartureTime)) + "  " +
			goldStyle.Render(formatMoney(f.Price)) + "  " +
			metaStyle.Render(fmt.Sprintf("%3d seats", f.AvailableSeats)) + "  " + avail
		b.WriteString(line + "\n")

		if i == m.cursor && m.state == mgDeleting {
			b.WriteString("   " + rejectStyle.Render("delete this flight? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		}
		if i == m.cursor && m.state == mgSeats {
			b.WriteString("   " + inputPromptStyle.Render("seats:") + " " + m.seatInput +
				accentStyle.Render("█") + "  " + dimStyle.Render("enter to save · esc to cancel") + "\n")
		}
	}

	if m.saving {
		b.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}

func (m manageModel) viewForm() string {
	var b strings.Builder
	b.WriteString("\n")

	labels := [numManageFields]string{
		"number", "origin", "destination",
		"departure", "arrival", "price", "seats", "available",
	}
	hints := [numManageFields]string{
		"", "", "", scheduleLayout, scheduleLayout, "", "", "h/l to toggle",
	}

	for i := manageField(0); i < numManageFields; i++ {
		cursor := " "
		style := metaStyle
		value := m.fields[i]
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
			if i != mgFieldAvailable {
				value += "█"
			}
		}
		line := " " + cursor + " " + style.Render(fmt.Sprintf("%-11s", labels[i])) + " " + value
		if hints[i] != "" && (value == "" || i == mgFieldAvailable) {
			line += "  " + inputPlaceholderStyle.Render(hints[i])
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n " + dimStyle.Render("tab next · enter save · esc cancel") + "\n")
	if m.saving {
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	}
	return b.String()
}

// helpKeys returns context-sensitive help based on the current state.
func (m manageModel) helpKeys() string {
	switch m.state {
	case mgAdding, mgEditing:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case mgDeleting:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case mgSeats:
		return helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("s", "seats") + "  " + helpEntry("d", "remove") + "  " + helpEntry("r", "reload")
	}
}
