package domain

import "time"

// Flight is a read-through copy of a flight record owned by the flight
// service. A copy is stale the moment any booking succeeds, so callers
// re-fetch after every mutation instead of patching local state.
type Flight struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flightNumber"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price"`
	Available      bool      `json:"available"`
	AvailableSeats int       `json:"availableSeats"`
}

// Bookable reports whether the flight can enter the booking workflow.
func (f Flight) Bookable() bool {
	return f.Available && f.AvailableSeats > 0
}

// Duration is the scheduled time between departure and arrival.
func (f Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}
