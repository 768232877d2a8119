package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistaro/checkout-gateway/internal/model"
)

func seat(id string, price int64) model.Seat {
	return model.Seat{ID: id, SeatNumber: id, Price: decimal.NewFromInt(price)}
}

func food(name string, price int64, qty int) SelectedFood {
	return SelectedFood{
		Food:     model.Food{ID: 1, Name: name, Price: decimal.NewFromInt(price)},
		Quantity: qty,
	}
}

func TestComputeNoOffer(t *testing.T) {
	// Two seats at 200 each, no food, no offer.
	est := Compute([]model.Seat{seat("A1", 200), seat("A2", 200)}, nil, "")

	assert.True(t, est.TicketTotal.Equal(decimal.NewFromInt(400)), "ticket total %s", est.TicketTotal)
	assert.True(t, est.FoodTotal.IsZero())
	assert.True(t, est.GrossTotal.Equal(decimal.NewFromInt(400)))
	assert.True(t, est.Discount.IsZero())
	assert.True(t, est.NetTotal.Equal(decimal.NewFromInt(400)))
}

func TestComputeWithCappedOffer(t *testing.T) {
	// VIST50 is 50% capped at 150: min(200, 150) = 150.
	est := Compute([]model.Seat{seat("A1", 200), seat("A2", 200)}, nil, "VIST50")

	assert.True(t, est.Discount.Equal(decimal.NewFromInt(150)), "discount %s", est.Discount)
	assert.True(t, est.NetTotal.Equal(decimal.NewFromInt(250)), "net %s", est.NetTotal)
}

func TestComputeUnknownOffer(t *testing.T) {
	est := Compute([]model.Seat{seat("A1", 200), seat("A2", 200)}, nil, "BOGUS")

	assert.True(t, est.Discount.IsZero())
	assert.True(t, est.NetTotal.Equal(decimal.NewFromInt(400)))
}

func TestComputeFoodTotals(t *testing.T) {
	seats := []model.Seat{seat("B4", 180)}
	foods := []SelectedFood{
		food("popcorn", 120, 2),
		food("cola", 80, 0),  // zero quantity contributes nothing
		food("nachos", 90, -1), // defensive: negative quantity ignored
	}
	est := Compute(seats, foods, "")

	assert.True(t, est.TicketTotal.Equal(decimal.NewFromInt(180)))
	assert.True(t, est.FoodTotal.Equal(decimal.NewFromInt(240)), "food total %s", est.FoodTotal)
	assert.True(t, est.GrossTotal.Equal(decimal.NewFromInt(420)))
}

func TestComputeDeterministic(t *testing.T) {
	seats := []model.Seat{seat("A1", 250), seat("A2", 250)}
	foods := []SelectedFood{food("combo", 300, 1)}

	first := Compute(seats, foods, "WEEKEND20")
	second := Compute(seats, foods, "WEEKEND20")

	assert.True(t, first.TicketTotal.Equal(second.TicketTotal))
	assert.True(t, first.FoodTotal.Equal(second.FoodTotal))
	assert.True(t, first.GrossTotal.Equal(second.GrossTotal))
	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.NetTotal.Equal(second.NetTotal))
}

func TestDiscountClamp(t *testing.T) {
	cases := []struct {
		name  string
		code  string
		gross int64
		want  int64
	}{
		{"vist50 below cap", "VIST50", 200, 100},
		{"vist50 at cap", "VIST50", 300, 150},
		{"vist50 above cap", "VIST50", 10000, 150},
		{"bank10 below cap", "BANK10", 500, 50},
		{"bank10 above cap", "BANK10", 5000, 200},
		{"weekend20 above cap", "WEEKEND20", 1000, 100},
		{"unknown code", "SUMMER", 1000, 0},
		{"empty code", "", 1000, 0},
		{"zero gross", "VIST50", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gross := decimal.NewFromInt(tc.gross)
			got := Discount(tc.code, gross)
			require.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s want %d", got, tc.want)

			// Clamp invariant: 0 <= discount <= gross percent and cap.
			assert.False(t, got.IsNegative())
			assert.True(t, got.LessThanOrEqual(gross.Add(decimal.NewFromInt(1))))
		})
	}
}

func TestNetTotalNeverNegative(t *testing.T) {
	// A tiny gross with a percentage discount can never push the net
	// below zero thanks to the clamp.
	est := Compute([]model.Seat{seat("A1", 1)}, nil, "VIST50")
	assert.False(t, est.NetTotal.IsNegative())
}
