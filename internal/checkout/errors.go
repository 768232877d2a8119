// Package checkout implements the booking confirmation flow: it holds the
// seat lock taken upstream, counts down the reservation window, keeps an
// advisory price estimate and performs the single booking submission.
// One Flow instance corresponds to one booking attempt and guarantees the
// lock is released at most once, and never after a successful booking.
package checkout

import "errors"

// Sentinel errors returned by Flow.Confirm.  Handlers translate these
// into user-visible validation messages; none of them involve a network
// call.
var (
	// ErrNoShowSelected is returned when display data never loaded or
	// the context's slot id matched none of the event's slots.
	ErrNoShowSelected = errors.New("no show selected")

	// ErrNoSeatsSelected is returned when the context carries no seats.
	ErrNoSeatsSelected = errors.New("no seats selected")

	// ErrNoPaymentMode is returned when the context carries no payment mode.
	ErrNoPaymentMode = errors.New("no payment mode selected")

	// ErrConfirmInFlight is returned when a confirmation is already being
	// submitted; Confirm is not re-entrant.
	ErrConfirmInFlight = errors.New("confirmation already in progress")

	// ErrFlowSettled is returned when the flow already reached a terminal
	// outcome (seats released by timeout or teardown).
	ErrFlowSettled = errors.New("checkout flow already settled")

	// ErrFlowNotFound is returned by the registry for unknown flow ids.
	ErrFlowNotFound = errors.New("checkout flow not found")
)
