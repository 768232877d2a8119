// Package handler exposes the HTTP surface of the checkout gateway. This
// file defines the checkout flow endpoints: starting a flow, polling its
// state, confirming the booking and tearing the flow down.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vistaro/checkout-gateway/internal/backend"
	"github.com/vistaro/checkout-gateway/internal/checkout"
	"github.com/vistaro/checkout-gateway/internal/model"
)

// CheckoutHandler serves the checkout flow endpoints on top of the flow
// registry.
type CheckoutHandler struct {
	Flows *checkout.Registry
	Log   *zap.Logger
}

// NewCheckoutHandler constructs a CheckoutHandler and panics on a nil
// registry.
func NewCheckoutHandler(flows *checkout.Registry, log *zap.Logger) *CheckoutHandler {
	if flows == nil {
		panic("nil registry passed to NewCheckoutHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutHandler{Flows: flows, Log: log}
}

// Start creates a checkout flow from the seat-selection payload. The
// display data load and the countdown begin before the response is
// written, so the returned snapshot already carries the full window.
func (h *CheckoutHandler) Start(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var bctx model.BookingContext
	if err := c.Bind(&bctx); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed payload"})
	}

	f, err := h.Flows.Start(c.Request().Context(), uid, bctx)
	if err != nil {
		if errors.Is(err, model.ErrInvalidContext) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.Log.Error("start flow failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start checkout"})
	}
	return c.JSON(http.StatusCreated, f.Snapshot())
}

// Get returns the current snapshot of a live flow. Settled flows are
// dropped from the registry, so polling one answers 404 just like an
// unknown id.
func (h *CheckoutHandler) Get(c echo.Context) error {
	f, ok := h.flowFor(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, f.Snapshot())
}

// Confirm submits the booking for a live flow. Precondition failures map
// to 422, a concurrent submission to 409, a settled flow to 410, and a
// backend rejection is relayed with the server's own status and message.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	f, ok := h.flowFor(c)
	if !ok {
		return nil
	}

	booking, err := f.Confirm(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoShowSelected),
			errors.Is(err, checkout.ErrNoSeatsSelected),
			errors.Is(err, checkout.ErrNoPaymentMode):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.Is(err, checkout.ErrConfirmInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, checkout.ErrFlowSettled):
			return c.JSON(http.StatusGone, echo.Map{"error": err.Error()})
		}
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			// The booking backend rejected the request; relay its
			// message untouched so the client sees the original text.
			return c.JSON(apiErr.StatusCode, echo.Map{"message": apiErr.Message})
		}
		h.Log.Error("confirm failed", zap.String("flow_id", f.ID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service unavailable"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking":  booking,
		"checkout": f.Snapshot(),
	})
}

// Cancel tears a flow down. Safe to call on a flow that already settled;
// the response reports the outcome that actually stuck.
func (h *CheckoutHandler) Cancel(c echo.Context) error {
	f, ok := h.flowFor(c)
	if !ok {
		return nil
	}
	out := f.Cancel(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"checkoutId": f.ID, "outcome": out})
}

// flowFor resolves the flow named in the path and enforces ownership.
// When ok is false the response has already been written.
func (h *CheckoutHandler) flowFor(c echo.Context) (*checkout.Flow, bool) {
	uid, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		return nil, false
	}
	f, err := h.Flows.Get(c.Param("id"))
	if err != nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "checkout not found"})
		return nil, false
	}
	if f.UserID != uid {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "not your checkout"})
		return nil, false
	}
	return f, true
}
