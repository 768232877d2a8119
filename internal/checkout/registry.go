package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vistaro/checkout-gateway/internal/model"
)

// DefaultWindowSeconds is the reservation window: how long the seat lock
// may be held before the flow auto-releases it.  Not renewable.
const DefaultWindowSeconds = 600

// SettledFunc is invoked once when a flow reaches its terminal outcome.
// The registry uses it to drop the flow and callers may chain their own
// side channel (event publishing) through Options.OnSettled.
type SettledFunc func(f *Flow, reason string)

// Options tunes flow construction.  Zero values fall back to the
// production defaults (600 second window, 1 second tick).
type Options struct {
	WindowSeconds int
	Tick          time.Duration
	OnSettled     SettledFunc
}

// Registry owns every live flow instance, keyed by flow id.  Flows are
// purely in-memory: a gateway restart abandons them all and relies on the
// backend's independent lock expiry, exactly as a page reload did in the
// original client.
type Registry struct {
	backend Backend
	log     *zap.Logger
	opts    Options

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewRegistry builds an empty registry.
func NewRegistry(be Backend, log *zap.Logger, opts Options) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		backend: be,
		log:     log,
		opts:    opts,
		flows:   make(map[string]*Flow),
	}
}

// Start validates the context, creates a flow, loads its display data and
// starts the countdown.  The flow is registered before Begin so that it
// is always findable while its timer runs.
func (r *Registry) Start(ctx context.Context, userID uint64, bctx model.BookingContext) (*Flow, error) {
	f, err := newFlow(uuid.NewString(), userID, bctx, r.backend,
		r.opts.WindowSeconds, r.opts.Tick, r.log, r.settled)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.flows[f.ID] = f
	r.mu.Unlock()
	activeFlows.Inc()

	f.Begin(ctx)
	return f, nil
}

// Get returns a live flow by id.
func (r *Registry) Get(id string) (*Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return f, nil
}

// Len reports the number of live flows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// settled removes a terminal flow from the registry and forwards the
// notification.  Safe to call more than once for the same flow.
func (r *Registry) settled(f *Flow, reason string) {
	r.mu.Lock()
	_, present := r.flows[f.ID]
	delete(r.flows, f.ID)
	r.mu.Unlock()
	if present {
		activeFlows.Dec()
	}
	if r.opts.OnSettled != nil {
		r.opts.OnSettled(f, reason)
	}
}
