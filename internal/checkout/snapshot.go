package checkout

import (
	"fmt"

	"github.com/vistaro/checkout-gateway/internal/model"
	"github.com/vistaro/checkout-gateway/internal/pricing"
)

// Snapshot is the JSON view of a flow that the checkout endpoints return:
// everything the confirmation screen renders, including the countdown in
// the MM:SS form the original UI displayed.
type Snapshot struct {
	FlowID           string           `json:"checkoutId"`
	Outcome          Outcome          `json:"outcome"`
	RemainingSeconds int              `json:"remainingSeconds"`
	TotalSeconds     int              `json:"totalSeconds"`
	Countdown        string           `json:"countdown"`
	PercentLeft      float64          `json:"percentLeft"`
	Confirmable      bool             `json:"confirmable"`
	LoadError        string           `json:"loadError,omitempty"`
	Event            *model.Event     `json:"event,omitempty"`
	Slot             *model.Slot      `json:"slot,omitempty"`
	Seats            []model.Seat     `json:"seats,omitempty"`
	Foods            []FoodSummary    `json:"foods,omitempty"`
	OfferCode        string           `json:"offerCode,omitempty"`
	GiftCardCode     string           `json:"giftCardCode,omitempty"`
	PaymentMode      string           `json:"paymentMode"`
	Estimate         pricing.Estimate `json:"estimate"`
}

// FoodSummary is a matched food line with its display data.
type FoodSummary struct {
	model.Food
	Quantity int `json:"quantity"`
}

// Snapshot captures the current flow state under the flow mutex.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		FlowID:           f.ID,
		Outcome:          f.outcome,
		RemainingSeconds: f.remaining,
		TotalSeconds:     f.total,
		Countdown:        fmt.Sprintf("%02d:%02d", f.remaining/60, f.remaining%60),
		Confirmable:      !f.settled && f.loaded && !f.submitting,
		LoadError:        f.loadErr,
		OfferCode:        f.Context.NormalizedOfferCode(),
		GiftCardCode:     f.Context.NormalizedGiftCardCode(),
		PaymentMode:      f.Context.PaymentMode,
		Estimate:         f.estimate,
	}
	if f.total > 0 {
		s.PercentLeft = float64(f.remaining) / float64(f.total) * 100
	}
	if f.bundle != nil {
		s.Event = f.bundle.Event
		s.Slot = f.bundle.Slot
		s.Seats = f.bundle.Seats
		s.Foods = make([]FoodSummary, 0, len(f.bundle.Foods))
		for _, sf := range f.bundle.Foods {
			s.Foods = append(s.Foods, FoodSummary{Food: sf.Food, Quantity: sf.Quantity})
		}
	}
	return s
}
