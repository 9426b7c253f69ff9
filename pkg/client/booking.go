package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Bookings is the gateway client for the booking service.
type Bookings struct {
	t *transport
}

// NewBookings creates a booking client against the given base URL.
func NewBookings(baseURL string, tokens TokenSource, timeout time.Duration) *Bookings {
	return &Bookings{t: newTransport(baseURL, tokens, timeout)}
}

// Create books seats on a flight. Each call carries a fresh idempotency
// key, so a confirm action maps to exactly one logical booking even if the
// transport layer ever replays the request.
func (c *Bookings) Create(ctx context.Context, flightID int64, seats int) (*domain.Booking, error) {
	params := url.Values{}
	params.Set("flightId", strconv.FormatInt(flightID, 10))
	params.Set("seats", strconv.Itoa(seats))

	hdr := map[string]string{"X-Idempotency-Key": uuid.NewString()}

	var booking domain.Booking
	if err := c.t.do(ctx, http.MethodPost, "/bookings?"+params.Encode(), nil, &booking, hdr); err != nil {
		return nil, fmt.Errorf("client.Create: %w", err)
	}
	return &booking, nil
}

// My fetches the caller's own bookings.
func (c *Bookings) My(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.t.get(ctx, "/bookings/my", &bookings); err != nil {
		return nil, fmt.Errorf("client.My: %w", err)
	}
	return bookings, nil
}

// All fetches every booking. Restricted server-side to privileged roles.
func (c *Bookings) All(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.t.get(ctx, "/bookings", &bookings); err != nil {
		return nil, fmt.Errorf("client.All: %w", err)
	}
	return bookings, nil
}

// Pay runs the payment for a booking and returns the processor's
// confirmation text. The whole payment flow is this single opaque call.
func (c *Bookings) Pay(ctx context.Context, bookingID int64, amount float64) (string, error) {
	path := "/bookings/doBooking/" + strconv.FormatInt(bookingID, 10) + "/" + strconv.FormatFloat(amount, 'f', 2, 64)
	msg, err := c.t.doText(ctx, http.MethodPost, path)
	if err != nil {
		return "", fmt.Errorf("client.Pay: %w", err)
	}
	return msg, nil
}
