// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckoutSettledEvent is published when a checkout flow reaches its
// terminal outcome. It carries enough information for downstream
// consumers to log, notify, or feed analytics without calling back into
// the gateway or the booking backend.
type CheckoutSettledEvent struct {
	FlowID    string   `json:"flow_id"`
	UserID    uint64   `json:"user_id"`
	EventID   uint64   `json:"event_id"`
	SlotID    uint64   `json:"slot_id"`
	SeatIDs   []string `json:"seat_ids"`
	Outcome   string   `json:"outcome"`
	Reason    string   `json:"reason,omitempty"`
	BookingID uint64   `json:"booking_id,omitempty"`
	NetTotal  string   `json:"net_total"`
	SettledAt string   `json:"settled_at"`
}
