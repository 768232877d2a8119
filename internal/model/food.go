package model

import "github.com/shopspring/decimal"

// Food is a menu item offered for a slot (popcorn, drinks, combos).
type Food struct {
	ID    uint64          `json:"foodId"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// FoodLine pairs a menu item with the quantity a user selected.  It is
// carried inside the booking context and forwarded verbatim to the
// booking-creation endpoint.
type FoodLine struct {
	FoodID   uint64 `json:"foodId"`
	Quantity int    `json:"quantity"`
}
