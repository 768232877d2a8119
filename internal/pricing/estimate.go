// Package pricing computes the client-side price preview shown on the
// checkout screen.  The numbers here are advisory only: the backend
// recomputes the authoritative total at booking time and its answer
// always wins.  Keeping the rules pure and table-driven makes the whole
// package trivially replaceable without touching the flow engine.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vistaro/checkout-gateway/internal/model"
)

// offer describes one known discount code: a percentage of the gross
// total, capped at a fixed amount.
type offer struct {
	percent int64
	cap     decimal.Decimal
}

// offers is the fixed rule table mirroring the platform's active codes.
// Unknown codes are not an error; they simply yield a zero discount.
var offers = map[string]offer{
	"VIST50":    {percent: 50, cap: decimal.NewFromInt(150)},
	"BANK10":    {percent: 10, cap: decimal.NewFromInt(200)},
	"WEEKEND20": {percent: 20, cap: decimal.NewFromInt(100)},
}

var hundred = decimal.NewFromInt(100)

// SelectedFood is a menu item matched against the booking context,
// carrying the quantity the user picked.
type SelectedFood struct {
	Food     model.Food
	Quantity int
}

// Estimate is the derived price preview.  All amounts are non-negative
// and NetTotal = max(0, GrossTotal - Discount).
type Estimate struct {
	TicketTotal decimal.Decimal `json:"ticketTotal"`
	FoodTotal   decimal.Decimal `json:"foodTotal"`
	GrossTotal  decimal.Decimal `json:"grossTotal"`
	Discount    decimal.Decimal `json:"discount"`
	NetTotal    decimal.Decimal `json:"netTotal"`
}

// Discount returns the estimated discount for an already-normalized
// offer code applied to a gross total.  The result is clamped to
// [0, min(percent*gross, cap)].  Unknown or empty codes yield zero.
func Discount(code string, gross decimal.Decimal) decimal.Decimal {
	o, ok := offers[code]
	if !ok {
		return decimal.Zero
	}
	d := gross.Mul(decimal.NewFromInt(o.percent)).Div(hundred)
	if d.GreaterThan(o.cap) {
		d = o.cap
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Compute derives the full estimate from the matched seats and food
// selections.  It is deterministic, holds no state and performs no I/O;
// calling it twice with the same inputs yields identical results.
func Compute(seats []model.Seat, foods []SelectedFood, offerCode string) Estimate {
	ticket := decimal.Zero
	for _, s := range seats {
		ticket = ticket.Add(s.Price)
	}
	food := decimal.Zero
	for _, f := range foods {
		if f.Quantity <= 0 {
			continue
		}
		food = food.Add(f.Food.Price.Mul(decimal.NewFromInt(int64(f.Quantity))))
	}
	gross := ticket.Add(food)
	discount := Discount(offerCode, gross)
	net := gross.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return Estimate{
		TicketTotal: ticket,
		FoodTotal:   food,
		GrossTotal:  gross,
		Discount:    discount,
		NetTotal:    net,
	}
}
