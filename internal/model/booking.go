package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingRequest is the payload submitted to the booking-creation
// endpoint when the user confirms payment.  Optional codes are sent as
// null rather than empty strings, matching what the backend expects.
type BookingRequest struct {
	UserID       uint64     `json:"userId"`
	SlotID       uint64     `json:"slotId"`
	SeatIDs      []string   `json:"seatIds"`
	OfferCode    *string    `json:"offerCode"`
	GiftCardCode *string    `json:"giftCardCode"`
	FoodItems    []FoodLine `json:"foodItems"`
	PaymentMode  string     `json:"paymentMode"`
}

// Booking is the record the backend returns once a booking has been
// created.  TotalAmount is the server-authoritative price, which may
// differ from the client-side estimate.
type Booking struct {
	ID          uint64          `json:"bookingId"`
	UserID      uint64          `json:"userId"`
	SlotID      uint64          `json:"slotId"`
	SeatIDs     []string        `json:"seatIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitzero"`
}
