package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContext marks a booking context that cannot start a checkout
// flow.  Handlers translate it into an HTTP 400 and send the user back to
// seat selection.  Validation errors wrap this sentinel so callers can
// use errors.Is without matching message text.
var ErrInvalidContext = errors.New("invalid booking context")

// BookingContext is the input bundle carried from the seat-selection step
// into the checkout flow.  It is read-only for the whole flow instance:
// the flow displays it, estimates a price from it and submits it, but
// never mutates it.
//
// SeatIDs keeps the order chosen upstream.  Uniqueness is assumed but not
// enforced here; duplicates are passed through to the backend untouched.
type BookingContext struct {
	EventID      uint64     `json:"eventId"`
	SlotID       uint64     `json:"slotId"`
	SeatIDs      []string   `json:"seatIds"`
	FoodItems    []FoodLine `json:"foodItems"`
	OfferCode    string     `json:"offerCode,omitempty"`
	GiftCardCode string     `json:"giftCardCode,omitempty"`
	PaymentMode  string     `json:"paymentMode"`
}

// Validate checks the presence rules for starting a checkout flow.  A
// failure here is terminal: the flow must not be created and no timer or
// lock handling may begin.
func (b BookingContext) Validate() error {
	if b.EventID == 0 {
		return fmt.Errorf("%w: event id is required", ErrInvalidContext)
	}
	if b.SlotID == 0 {
		return fmt.Errorf("%w: slot id is required", ErrInvalidContext)
	}
	if len(b.SeatIDs) == 0 {
		return fmt.Errorf("%w: at least one seat is required", ErrInvalidContext)
	}
	for _, id := range b.SeatIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty seat id", ErrInvalidContext)
		}
	}
	for _, fl := range b.FoodItems {
		if fl.Quantity < 0 {
			return fmt.Errorf("%w: negative quantity for food %d", ErrInvalidContext, fl.FoodID)
		}
	}
	if strings.TrimSpace(b.PaymentMode) == "" {
		return fmt.Errorf("%w: payment mode is required", ErrInvalidContext)
	}
	return nil
}

// NormalizedOfferCode returns the offer code trimmed and upper-cased, the
// form used for display and discount estimation.  The raw code is still
// what gets submitted to the backend.
func (b BookingContext) NormalizedOfferCode() string {
	return strings.ToUpper(strings.TrimSpace(b.OfferCode))
}

// NormalizedGiftCardCode returns the gift card code trimmed and
// upper-cased for display purposes.
func (b BookingContext) NormalizedGiftCardCode() string {
	return strings.ToUpper(strings.TrimSpace(b.GiftCardCode))
}
