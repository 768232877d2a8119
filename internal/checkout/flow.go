package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vistaro/checkout-gateway/internal/model"
	"github.com/vistaro/checkout-gateway/internal/pricing"
)

// Backend is the slice of the collaborator API the flow depends on.  The
// production implementation is *backend.Client; tests substitute fakes.
type Backend interface {
	GetEvent(ctx context.Context, eventID uint64) (*model.Event, error)
	GetSlotsByEvent(ctx context.Context, eventID uint64) ([]model.Slot, error)
	GetSeatsForSlot(ctx context.Context, slotID uint64) ([]model.Seat, error)
	GetFoodsForSlot(ctx context.Context, slotID uint64) ([]model.Food, error)
	UnlockSeats(ctx context.Context, seatIDs []string) error
	CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
}

// Outcome is the terminal marker of a flow instance.  It moves from
// pending to exactly one of booked or released and never back.
type Outcome string

const (
	OutcomePending  Outcome = "PENDING"
	OutcomeBooked   Outcome = "BOOKED"
	OutcomeReleased Outcome = "RELEASED"
)

// timerState tracks the countdown state machine:
// idle -> running -> {expired, cancelled}.
type timerState int

const (
	timerIdle timerState = iota
	timerRunning
	timerExpired
	timerCancelled
)

// Reasons recorded when a flow settles as released.
const (
	ReasonTimeout  = "timeout"
	ReasonTeardown = "teardown"
)

// releaseTimeout bounds the best-effort unlock call so teardown can never
// hang on a slow backend.
const releaseTimeout = 5 * time.Second

// DisplayBundle holds the read-only data fetched once per flow instance.
// Seats and Foods are already reduced to the subset named in the booking
// context, with seats kept in seat-selection order.
type DisplayBundle struct {
	Event *model.Event
	Slot  *model.Slot
	Seats []model.Seat
	Foods []pricing.SelectedFood
}

// Flow is one run of the checkout screen for one booking attempt.  All
// state transitions happen under mu, which serializes ticks, confirm,
// cancellation and expiry exactly like the cooperative event loop the
// original screen ran on.
type Flow struct {
	ID      string
	UserID  uint64
	Context model.BookingContext

	backend   Backend
	log       *zap.Logger
	tick      time.Duration
	onSettled func(f *Flow, reason string)

	stopOnce sync.Once
	stop     chan struct{}

	mu         sync.Mutex
	outcome    Outcome
	settled    bool // set once by whichever exit path wins; guards the unlock call
	timer      timerState
	total      int
	remaining  int
	submitting bool
	loaded     bool
	loadErr    string
	bundle     *DisplayBundle
	estimate   pricing.Estimate
	reason     string
	startedAt  time.Time
}

// newFlow validates the context and builds an idle flow.  The countdown
// does not start until Begin is called.
func newFlow(id string, userID uint64, bctx model.BookingContext, be Backend, windowSec int, tick time.Duration, log *zap.Logger, onSettled func(*Flow, string)) (*Flow, error) {
	if err := bctx.Validate(); err != nil {
		return nil, err
	}
	if windowSec <= 0 {
		windowSec = DefaultWindowSeconds
	}
	if tick <= 0 {
		tick = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{
		ID:        id,
		UserID:    userID,
		Context:   bctx,
		backend:   be,
		log:       log.With(zap.String("flow_id", id)),
		tick:      tick,
		onSettled: onSettled,
		stop:      make(chan struct{}),
		outcome:   OutcomePending,
		timer:     timerIdle,
		total:     windowSec,
		remaining: windowSec,
	}, nil
}

// Begin loads display data and then starts the countdown.  A failed load
// leaves the flow alive but non-actionable: Confirm is gated by the
// missing slot, while the timer still guarantees the seats are released
// when the window runs out.
func (f *Flow) Begin(ctx context.Context) {
	if err := f.load(ctx); err != nil {
		f.log.Warn("display data load failed", zap.Error(err))
	}
	f.startTimer()
}

// load fetches the four read endpoints together and applies all-or-nothing
// semantics: any failure discards everything so the screen never renders
// partial data.
func (f *Flow) load(ctx context.Context) error {
	start := time.Now()

	var (
		ev    *model.Event
		slots []model.Slot
		seats []model.Seat
		foods []model.Food
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ev, err = f.backend.GetEvent(gctx, f.Context.EventID)
		return err
	})
	g.Go(func() error {
		var err error
		slots, err = f.backend.GetSlotsByEvent(gctx, f.Context.EventID)
		return err
	})
	g.Go(func() error {
		var err error
		seats, err = f.backend.GetSeatsForSlot(gctx, f.Context.SlotID)
		return err
	})
	g.Go(func() error {
		var err error
		foods, err = f.backend.GetFoodsForSlot(gctx, f.Context.SlotID)
		return err
	})
	if err := g.Wait(); err != nil {
		f.mu.Lock()
		f.loadErr = "Failed to load booking details."
		f.mu.Unlock()
		loadDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}

	var slot *model.Slot
	for i := range slots {
		if slots[i].ID == f.Context.SlotID {
			slot = &slots[i]
			break
		}
	}

	bundle := &DisplayBundle{
		Event: ev,
		Slot:  slot,
		Seats: matchSeats(seats, f.Context.SeatIDs),
		Foods: matchFoods(foods, f.Context.FoodItems),
	}
	est := pricing.Compute(bundle.Seats, bundle.Foods, f.Context.NormalizedOfferCode())

	f.mu.Lock()
	f.bundle = bundle
	f.estimate = est
	f.loaded = slot != nil
	if slot == nil {
		f.loadErr = "Unable to load booking details."
	}
	f.mu.Unlock()

	loadDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	if slot == nil {
		return fmt.Errorf("slot %d not found among %d slots of event %d",
			f.Context.SlotID, len(slots), f.Context.EventID)
	}
	return nil
}

// matchSeats reduces the slot's seat map to the seats named in seatIDs,
// preserving the selection order and silently skipping unknown ids.
func matchSeats(all []model.Seat, seatIDs []string) []model.Seat {
	byID := make(map[string]model.Seat, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}
	matched := make([]model.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if s, ok := byID[id]; ok {
			matched = append(matched, s)
		}
	}
	return matched
}

// matchFoods pairs the menu with the quantities from the context,
// skipping unknown food ids.
func matchFoods(menu []model.Food, lines []model.FoodLine) []pricing.SelectedFood {
	byID := make(map[uint64]model.Food, len(menu))
	for _, fd := range menu {
		byID[fd.ID] = fd
	}
	matched := make([]pricing.SelectedFood, 0, len(lines))
	for _, ln := range lines {
		if fd, ok := byID[ln.FoodID]; ok {
			matched = append(matched, pricing.SelectedFood{Food: fd, Quantity: ln.Quantity})
		}
	}
	return matched
}

// startTimer moves the countdown from idle to running.  It is a no-op on
// any other state, so the countdown is single-shot for the flow's life.
func (f *Flow) startTimer() {
	f.mu.Lock()
	if f.timer != timerIdle {
		f.mu.Unlock()
		return
	}
	f.timer = timerRunning
	f.startedAt = time.Now()
	f.mu.Unlock()
	go f.run()
}

// run is the ticking loop.  Ticks are strictly sequential: each decrement
// happens under the flow mutex and observes the previous one.  The loop
// exits on cancellation or after delivering exactly one expiry.
func (f *Flow) run() {
	t := time.NewTicker(f.tick)
	defer t.Stop()
	for {
		select {
		case <-f.stop:
			return
		case <-t.C:
			if f.tickOnce() {
				f.expire()
				return
			}
		}
	}
}

// tickOnce decrements the remaining time and reports whether the window
// just expired.  remaining never goes below zero, and once the state
// leaves running no further decrement can happen.
func (f *Flow) tickOnce() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != timerRunning {
		return false
	}
	if f.remaining <= 1 {
		f.remaining = 0
		f.timer = timerExpired
		return true
	}
	f.remaining--
	return false
}

// expire is the timeout exit path.  Whichever of expiry and teardown
// settles the flow first wins; the loser does nothing.
func (f *Flow) expire() {
	f.mu.Lock()
	won := f.trySettleLocked(OutcomeReleased, ReasonTimeout)
	f.mu.Unlock()
	if !won {
		return
	}
	f.log.Info("reservation window expired, releasing seats",
		zap.Strings("seat_ids", f.Context.SeatIDs))
	f.releaseSeats(ReasonTimeout)
	f.notifySettled(ReasonTimeout)
}

// Cancel is the teardown exit path.  It stops the countdown synchronously
// before anything else: after Cancel returns, no tick can decrement and
// no expiry can fire.  If the flow is still pending the seats are
// released; a flow that already settled is left untouched, so calling
// Cancel twice, or after expiry or a successful booking, is a no-op.
func (f *Flow) Cancel(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.timer == timerRunning {
		f.timer = timerCancelled
	}
	f.stopOnce.Do(func() { close(f.stop) })
	won := f.trySettleLocked(OutcomeReleased, ReasonTeardown)
	out := f.outcome
	f.mu.Unlock()

	if won {
		f.log.Info("flow cancelled, releasing seats",
			zap.Strings("seat_ids", f.Context.SeatIDs))
		f.releaseSeats(ReasonTeardown)
		f.notifySettled(ReasonTeardown)
	}
	return out
}

// trySettleLocked is the idempotent "already handled" guard behind the
// at-most-one-release property.  The first caller marks the flow settled
// and, if the outcome is still pending, records the terminal outcome.
// Callers must hold f.mu.
func (f *Flow) trySettleLocked(out Outcome, reason string) bool {
	if f.settled {
		return false
	}
	f.settled = true
	if f.outcome == OutcomePending {
		f.outcome = out
		f.reason = reason
	}
	return true
}

// releaseSeats performs the best-effort unlock call.  Failures are logged
// and swallowed: the user has already been told the seats are gone (or is
// leaving regardless) and the backend expires its locks independently.
func (f *Flow) releaseSeats(trigger string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := f.backend.UnlockSeats(ctx, f.Context.SeatIDs); err != nil {
		seatReleases.WithLabelValues(trigger, "error").Inc()
		f.log.Warn("seat unlock failed", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	seatReleases.WithLabelValues(trigger, "ok").Inc()
}

// Confirm submits the booking.  Preconditions are checked locally first
// and fail without any network call; a second concurrent call is refused
// outright.  On success the booked outcome is recorded before control
// returns, so no later tick or teardown can release the seats.  On
// backend rejection the error is returned as-is (an *backend.APIError
// carries the server's message verbatim), the flow stays pending and the
// countdown keeps running so the user may retry until the window closes.
func (f *Flow) Confirm(ctx context.Context) (*model.Booking, error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return nil, ErrFlowSettled
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrConfirmInFlight
	}
	if len(f.Context.SeatIDs) == 0 {
		f.mu.Unlock()
		return nil, ErrNoSeatsSelected
	}
	if f.bundle == nil || f.bundle.Slot == nil {
		f.mu.Unlock()
		return nil, ErrNoShowSelected
	}
	if f.Context.PaymentMode == "" {
		f.mu.Unlock()
		return nil, ErrNoPaymentMode
	}
	f.submitting = true
	req := f.bookingRequestLocked()
	f.mu.Unlock()

	start := time.Now()
	booking, err := f.backend.CreateBooking(ctx, req)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.mu.Unlock()
		confirmDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		return nil, err
	}
	alreadyReleased := f.settled
	f.settled = true
	f.outcome = OutcomeBooked
	if f.timer == timerRunning {
		f.timer = timerCancelled
	}
	f.stopOnce.Do(func() { close(f.stop) })
	f.mu.Unlock()

	if alreadyReleased {
		// The window expired while the request was in flight and the
		// unlock already went out; the backend accepted the booking
		// anyway and is the source of truth, so record it as booked.
		f.log.Warn("booking accepted after reservation window expired",
			zap.Uint64("booking_id", booking.ID))
	}
	confirmDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	f.log.Info("booking confirmed",
		zap.Uint64("booking_id", booking.ID),
		zap.String("total", booking.TotalAmount.String()))
	f.notifySettled("")
	return booking, nil
}

// bookingRequestLocked builds the creation payload.  Optional codes are
// submitted raw (not normalized); empty ones become null.
func (f *Flow) bookingRequestLocked() *model.BookingRequest {
	req := &model.BookingRequest{
		UserID:      f.UserID,
		SlotID:      f.Context.SlotID,
		SeatIDs:     f.Context.SeatIDs,
		FoodItems:   f.Context.FoodItems,
		PaymentMode: f.Context.PaymentMode,
	}
	if f.Context.OfferCode != "" {
		code := f.Context.OfferCode
		req.OfferCode = &code
	}
	if f.Context.GiftCardCode != "" {
		code := f.Context.GiftCardCode
		req.GiftCardCode = &code
	}
	return req
}

// notifySettled reports the terminal outcome once to the registry hook.
func (f *Flow) notifySettled(reason string) {
	f.mu.Lock()
	out := f.outcome
	f.mu.Unlock()
	flowsSettled.WithLabelValues(string(out), reasonLabel(reason)).Inc()
	if f.onSettled != nil {
		f.onSettled(f, reason)
	}
}

func reasonLabel(reason string) string {
	if reason == "" {
		return "confirmed"
	}
	return reason
}

// Outcome returns the current terminal marker.
func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Remaining returns the seconds left in the reservation window.
func (f *Flow) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}
