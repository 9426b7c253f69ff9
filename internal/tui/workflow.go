package tui

import (
	"github.com/eazytourist/skyfare/pkg/domain"
)

// flowState tracks where a booking attempt is in its lifecycle.
type flowState int

const (
	flowBrowsing   flowState = iota
	flowSelecting            // picking a seat count for a chosen flight
	flowConfirming           // reviewing the summary before submit
	flowSubmitting           // request in flight, input locked
	flowSettled              // booking confirmed by the server
)

// maxSeatsPerBooking caps a single booking regardless of availability.
const maxSeatsPerBooking = 10

// bookingFlow is the booking state machine. It holds no client and does no
// I/O; the view drives it and fires the one network call from Confirm.
type bookingFlow struct {
	state   flowState
	flight  *domain.Flight
	seats   int
	booking *domain.Booking
	failMsg string
}

// SelectFlight moves Browsing -> Selecting. Flights that are unavailable or
// sold out are not selectable.
func (f *bookingFlow) SelectFlight(flight *domain.Flight) bool {
	if f.state != flowBrowsing || flight == nil || !flight.Bookable() {
		return false
	}
	f.state = flowSelecting
	f.flight = flight
	f.seats = 1
	f.failMsg = ""
	return true
}

// SeatLimit is the most seats this booking may request.
func (f *bookingFlow) SeatLimit() int {
	if f.flight == nil {
		return 0
	}
	limit := f.flight.AvailableSeats
	if limit > maxSeatsPerBooking {
		limit = maxSeatsPerBooking
	}
	return limit
}

// AdjustSeats moves the seat count by delta, clamped to [1, SeatLimit].
func (f *bookingFlow) AdjustSeats(delta int) {
	if f.state != flowSelecting {
		return
	}
	f.seats += delta
	if f.seats < 1 {
		f.seats = 1
	}
	if limit := f.SeatLimit(); f.seats > limit {
		f.seats = limit
	}
}

// ConfirmSeats moves Selecting -> Confirming.
func (f *bookingFlow) ConfirmSeats() bool {
	if f.state != flowSelecting || f.seats < 1 || f.seats > f.SeatLimit() {
		return false
	}
	f.state = flowConfirming
	return true
}

// Submit moves Confirming -> Submitting. The caller fires the network
// request; no further input mutates the flow until Settle or Fail.
func (f *bookingFlow) Submit() bool {
	if f.state != flowConfirming {
		return false
	}
	f.state = flowSubmitting
	f.failMsg = ""
	return true
}

// Settle records the confirmed booking, Submitting -> Settled.
func (f *bookingFlow) Settle(b *domain.Booking) {
	if f.state != flowSubmitting {
		return
	}
	f.state = flowSettled
	f.booking = b
}

// Fail returns to Confirming with the server's message kept verbatim, so
// the same attempt can be retried or abandoned.
func (f *bookingFlow) Fail(msg string) {
	if f.state != flowSubmitting {
		return
	}
	f.state = flowConfirming
	f.failMsg = msg
}

// Cancel abandons the attempt from Selecting or Confirming. It never fires
// a request and is a no-op mid-submit.
func (f *bookingFlow) Cancel() bool {
	if f.state != flowSelecting && f.state != flowConfirming {
		return false
	}
	*f = bookingFlow{}
	return true
}

// Acknowledge dismisses the settled summary, Settled -> Browsing.
func (f *bookingFlow) Acknowledge() bool {
	if f.state != flowSettled {
		return false
	}
	*f = bookingFlow{}
	return true
}

// Total is the advisory price shown before submit. The server's figure on
// the settled booking is authoritative.
func (f *bookingFlow) Total() float64 {
	if f.flight == nil {
		return 0
	}
	return f.flight.Price * float64(f.seats)
}

// Active reports whether the flow is holding the view (anything past
// Browsing captures navigation keys).
func (f *bookingFlow) Active() bool {
	return f.state != flowBrowsing
}
