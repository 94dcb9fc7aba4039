package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-cart/internal/cart"
	"golang.org/x/sync/singleflight"
)

// Factory builds and hydrates the cart store of one session.
type Factory func(ctx context.Context, sessionID string) (*cart.Store, error)

type entry struct {
	store    *cart.Store
	lastUsed time.Time
}

// Registry hands out one cart.Store per session, creating it on first use.
// Stores idle for longer than the idle timeout are evicted by Sweep; the
// next request hydrates them again from the durable snapshot.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(factory Factory, opts ...Option) *Registry {
	r := &Registry{
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) Get(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	if store, ok := r.touch(sessionID); ok {
		return store, nil
	}

	v, err, _ := r.group.Do(sessionID, func() (any, error) {
		if store, ok := r.touch(sessionID); ok {
			return store, nil
		}

		store, err := r.factory(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.entries[sessionID] = &entry{store: store, lastUsed: r.now()}
		r.mu.Unlock()

		return store, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session[%s]: %w", sessionID, err)
	}

	return v.(*cart.Store), nil
}

// Forget drops the in-memory store. The durable snapshot is kept.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.forgetLocked(sessionID)
}

// Sweep forgets every store unused for longer than idle and returns how many it dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped int
	for sessionID, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			r.forgetLocked(sessionID)
			dropped++
		}
	}

	return dropped
}

// forgetLocked requires r.mu.
func (r *Registry) forgetLocked(sessionID string) {
	delete(r.entries, sessionID)
}

// Run sweeps every interval until ctx is done. A non-positive interval disables sweeping.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *Registry) touch(sessionID string) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()

	return e.store, true
}
