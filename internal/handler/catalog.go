// This file defines the catalog proxy: read-only event, slot, seat and
// food lookups forwarded to the booking backend. The routes sit behind
// the Redis response cache so hot listings skip the upstream round trip.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vistaro/checkout-gateway/internal/backend"
)

// CatalogHandler forwards catalog reads to the booking backend.
type CatalogHandler struct {
	Backend *backend.Client
}

// NewCatalogHandler constructs a CatalogHandler and panics on a nil client.
func NewCatalogHandler(be *backend.Client) *CatalogHandler {
	if be == nil {
		panic("nil backend client passed to NewCatalogHandler")
	}
	return &CatalogHandler{Backend: be}
}

// GetEvent returns a single event by id.
func (h *CatalogHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Backend.GetEvent(c.Request().Context(), id)
	if err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// GetSlots lists the slots of an event.
func (h *CatalogHandler) GetSlots(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	slots, err := h.Backend.GetSlotsByEvent(c.Request().Context(), id)
	if err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": slots})
}

// GetSeats lists the seat map of a slot.
func (h *CatalogHandler) GetSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	seats, err := h.Backend.GetSeatsForSlot(c.Request().Context(), id)
	if err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// GetFoods lists the food menu of a slot.
func (h *CatalogHandler) GetFoods(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	foods, err := h.Backend.GetFoodsForSlot(c.Request().Context(), id)
	if err != nil {
		return relayBackendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": foods})
}

// relayBackendError maps a backend failure onto the proxy response: an
// APIError keeps its upstream status and message, anything else becomes
// a 502.
func relayBackendError(c echo.Context, err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, echo.Map{"message": apiErr.Message})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service unavailable"})
}
