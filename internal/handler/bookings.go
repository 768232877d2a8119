// This file defines the booking history endpoints: listing the caller's
// confirmed bookings and cancelling one. Both are thin proxies over the
// booking backend, scoped to the authenticated user.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vistaro/checkout-gateway/internal/backend"
)

// BookingHandler forwards booking history operations to the backend.
type BookingHandler struct {
	Backend *backend.Client
}

// NewBookingHandler constructs a BookingHandler and panics on a nil client.
func NewBookingHandler(be *backend.Client) *BookingHandler {
	if be == nil {
		panic("nil backend client passed to NewBookingHandler")
	}
	return &BookingHandler{Backend: be}
}

// List returns the caller's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	bookings, err := h.Backend.ListBookingsByUser(c.Request().Context(), uid)
	if err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// Delete cancels one of the caller's bookings. Ownership is enforced by
// the backend, which answers 403 for someone else's booking; that status
// is relayed as-is.
func (h *BookingHandler) Delete(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Backend.DeleteBooking(c.Request().Context(), id); err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
