package model

import "github.com/shopspring/decimal"

// Seat is a single bookable seat within a slot.  Seat identifiers are
// opaque strings assigned by the backend (e.g. "A1"); the checkout flow
// never parses them.
type Seat struct {
	ID         string          `json:"seatId"`
	SeatNumber string          `json:"seatNumber"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status,omitempty"`
}
