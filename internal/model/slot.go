package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Slot represents one showing of an event at a venue: a screening time for
// a movie, a match day for sports and so on.  The backend returns every
// slot of an event from a single endpoint; the checkout flow picks the one
// slot named in the booking context.
//
// Fields:
//
//	ID        – backend identifier of the slot.
//	EventID   – event this slot belongs to.
//	VenueID   – venue where the slot takes place.
//	StartTime – when the show begins.
//	EndTime   – when the show ends.
//	Language  – audio language of the show.
//	Format    – presentation format (2D, 3D, IMAX, ...).
//	BasePrice – default seat price before per-seat overrides.
type Slot struct {
	ID        uint64          `json:"slotId"`
	EventID   uint64          `json:"eventId"`
	VenueID   uint64          `json:"venueId"`
	StartTime time.Time       `json:"startTime"`
	EndTime   time.Time       `json:"endTime,omitzero"`
	Language  string          `json:"language,omitempty"`
	Format    string          `json:"format,omitempty"`
	BasePrice decimal.Decimal `json:"basePrice"`
}
