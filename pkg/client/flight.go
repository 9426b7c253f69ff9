package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Flights is the gateway client for the flight inventory service.
type Flights struct {
	t *transport
}

// NewFlights creates a flight client against the given base URL.
func NewFlights(baseURL string, tokens TokenSource, timeout time.Duration) *Flights {
	return &Flights{t: newTransport(baseURL, tokens, timeout)}
}

// FlightAttrs is a flight without its identifier, used for creation and
// updates.
type FlightAttrs struct {
	FlightNumber   string    `json:"flightNumber"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price"`
	Available      bool      `json:"available"`
	AvailableSeats int       `json:"availableSeats"`
}

// List fetches every flight.
func (c *Flights) List(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	if err := c.t.get(ctx, "/flights", &flights); err != nil {
		return nil, fmt.Errorf("client.List: %w", err)
	}
	return flights, nil
}

// Get fetches a single flight by id.
func (c *Flights) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	var flight domain.Flight
	if err := c.t.get(ctx, "/flights/"+strconv.FormatInt(id, 10), &flight); err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}
	return &flight, nil
}

// Search fetches flights matching the given route.
func (c *Flights) Search(ctx context.Context, source, destination string) ([]domain.Flight, error) {
	params := url.Values{}
	params.Set("source", source)
	params.Set("destination", destination)

	var flights []domain.Flight
	if err := c.t.get(ctx, "/flights/search?"+params.Encode(), &flights); err != nil {
		return nil, fmt.Errorf("client.Search: %w", err)
	}
	return flights, nil
}

// Create adds a new flight. Restricted server-side to AIRLINE/ADMIN.
func (c *Flights) Create(ctx context.Context, attrs FlightAttrs) (*domain.Flight, error) {
	var created domain.Flight
	if err := c.t.post(ctx, "/flights", attrs, &created); err != nil {
		return nil, fmt.Errorf("client.Create: %w", err)
	}
	return &created, nil
}

// Update replaces a flight's attributes.
func (c *Flights) Update(ctx context.Context, id int64, attrs FlightAttrs) (*domain.Flight, error) {
	var updated domain.Flight
	if err := c.t.do(ctx, http.MethodPut, "/flights/"+strconv.FormatInt(id, 10), attrs, &updated, nil); err != nil {
		return nil, fmt.Errorf("client.Update: %w", err)
	}
	return &updated, nil
}

// UpdateSeats sets the available seat count for a flight.
func (c *Flights) UpdateSeats(ctx context.Context, id int64, seats int) (*domain.Flight, error) {
	params := url.Values{}
	params.Set("seats", strconv.Itoa(seats))

	var updated domain.Flight
	path := "/flights/" + strconv.FormatInt(id, 10) + "/seats?" + params.Encode()
	if err := c.t.do(ctx, http.MethodPatch, path, nil, &updated, nil); err != nil {
		return nil, fmt.Errorf("client.UpdateSeats: %w", err)
	}
	return &updated, nil
}

// Delete removes a flight and returns the server's confirmation text.
func (c *Flights) Delete(ctx context.Context, id int64) (string, error) {
	msg, err := c.t.doText(ctx, http.MethodDelete, "/flights/"+strconv.FormatInt(id, 10))
	if err != nil {
		return "", fmt.Errorf("client.Delete: %w", err)
	}
	return msg, nil
}
