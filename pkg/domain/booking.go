package domain

import "time"

// Booking is a confirmed reservation returned by the booking service.
// TotalPrice is computed server-side and is the authoritative figure;
// the client's own price × seats arithmetic is display-only.
type Booking struct {
	ID          int64     `json:"id"`
	UserEmail   string    `json:"userEmail"`
	FlightID    int64     `json:"flightId"`
	BookingTime time.Time `json:"bookingTime"`
	SeatsBooked int       `json:"seatsBooked"`
	TotalPrice  float64   `json:"totalPrice"`
}
