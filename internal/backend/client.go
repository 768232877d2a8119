// Package backend is the gateway's data-access layer.  Instead of a SQL
// database it talks to the Vistaro REST backend, which owns all business
// state of record: catalog data, seat inventory and locks, bookings and
// authoritative pricing.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vistaro/checkout-gateway/internal/model"
)

// Client is a thin JSON client for the collaborator API.  It is safe for
// concurrent use.  Every call takes a context so callers control
// cancellation; the embedded http.Client timeout is the upper bound.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// New returns a Client for the given base URL (e.g. "http://backend:9090").
// A non-positive timeout falls back to 10 seconds.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// GetEvent fetches a single event record.
func (c *Client) GetEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/event/%d", eventID), nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetSlotsByEvent fetches every slot of an event.  The backend has no
// per-slot filter on this endpoint; callers pick the slot they need.
func (c *Client) GetSlotsByEvent(ctx context.Context, eventID uint64) ([]model.Slot, error) {
	var slots []model.Slot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/eventslot/event/%d", eventID), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// GetSeatsForSlot fetches the full seat map of a slot.
func (c *Client) GetSeatsForSlot(ctx context.Context, slotID uint64) ([]model.Seat, error) {
	var seats []model.Seat
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/seat/slot/%d", slotID), nil, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetFoodsForSlot fetches the food menu offered for a slot.
func (c *Client) GetFoodsForSlot(ctx context.Context, slotID uint64) ([]model.Food, error) {
	var foods []model.Food
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/food/slot/%d", slotID), nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// UnlockSeats asks the backend to release the given seat locks.  The
// response body is irrelevant to flow correctness; callers treat this as
// best-effort and must tolerate failure.
func (c *Client) UnlockSeats(ctx context.Context, seatIDs []string) error {
	body := map[string][]string{"seatIds": seatIDs}
	return c.do(ctx, http.MethodPost, "/api/v1/seat/unlock", body, nil)
}

// CreateBooking submits a booking.  On rejection the returned error is an
// *APIError carrying the backend's message verbatim.
func (c *Client) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	var bk model.Booking
	if err := c.do(ctx, http.MethodPost, "/api/v1/booking", req, &bk); err != nil {
		return nil, err
	}
	return &bk, nil
}

// ListBookingsByUser fetches the booking history of a user.
func (c *Client) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	var bks []model.Booking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/booking/user/%d", userID), nil, &bks); err != nil {
		return nil, err
	}
	return bks, nil
}

// DeleteBooking cancels a booking by id.
func (c *Client) DeleteBooking(ctx context.Context, bookingID uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/booking/%d", bookingID), nil, nil)
}

// do performs one JSON round trip.  A nil body sends no payload; a nil
// out discards the response body.  Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.log.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
