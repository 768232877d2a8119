package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validBookingContext() BookingContext {
	return BookingContext{
		EventID:     1,
		SlotID:      5,
		SeatIDs:     []string{"A1", "A2"},
		PaymentMode: "CARD",
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*BookingContext)
		wantErr bool
	}{
		{"valid", func(b *BookingContext) {}, false},
		{"valid with extras", func(b *BookingContext) {
			b.OfferCode = "VIST50"
			b.FoodItems = []FoodLine{{FoodID: 3, Quantity: 2}}
		}, false},
		{"missing event", func(b *BookingContext) { b.EventID = 0 }, true},
		{"missing slot", func(b *BookingContext) { b.SlotID = 0 }, true},
		{"no seats", func(b *BookingContext) { b.SeatIDs = nil }, true},
		{"blank seat id", func(b *BookingContext) { b.SeatIDs = []string{"A1", "  "} }, true},
		{"negative food quantity", func(b *BookingContext) {
			b.FoodItems = []FoodLine{{FoodID: 3, Quantity: -1}}
		}, true},
		{"zero food quantity allowed", func(b *BookingContext) {
			b.FoodItems = []FoodLine{{FoodID: 3, Quantity: 0}}
		}, false},
		{"missing payment mode", func(b *BookingContext) { b.PaymentMode = "" }, true},
		{"blank payment mode", func(b *BookingContext) { b.PaymentMode = "   " }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBookingContext()
			tc.mutate(&b)
			err := b.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContext)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizedCodes(t *testing.T) {
	b := validBookingContext()
	b.OfferCode = "  vist50 "
	b.GiftCardCode = "gc-123"
	assert.Equal(t, "VIST50", b.NormalizedOfferCode())
	assert.Equal(t, "GC-123", b.NormalizedGiftCardCode())

	b.OfferCode = ""
	assert.Empty(t, b.NormalizedOfferCode())
}
