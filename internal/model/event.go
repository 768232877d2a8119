package model

import "time"

// Event represents a bookable listing in the catalog: a movie, a sports
// fixture or a general event.  Only the fields the checkout flow displays
// are modelled; the backend owns the full record.
//
// Fields:
//
//	ID           – backend identifier of the event.
//	Title        – display title.
//	Category     – top-level category (MOVIE, SPORTS, EVENT).
//	SubCategory  – optional finer classification (genre, league, ...).
//	BannerURL    – large banner image.
//	ThumbnailURL – card thumbnail image.
//	CreatedAt    – when the listing was created.
//	UpdatedAt    – last modification timestamp.
type Event struct {
	ID           uint64    `json:"eventId"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	SubCategory  string    `json:"subCategory,omitempty"`
	BannerURL    string    `json:"bannerUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}
