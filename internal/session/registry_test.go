package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCatalog struct{}

func (nopCatalog) GetProduct(context.Context, int64) (domain.Product, error) {
	return domain.Product{}, domain.ErrProductNotFound
}

func (nopCatalog) GetStock(context.Context, int64) (domain.Stock, error) {
	return domain.Stock{}, domain.ErrProductNotFound
}

func countingFactory(snapshots port.SnapshotStore, created *atomic.Int32) session.Factory {
	return func(ctx context.Context, sessionID string) (*cart.Store, error) {
		created.Add(1)
		return cart.New(ctx, sessionID, nopCatalog{}, snapshots)
	}
}

func TestRegistry_Get(t *testing.T) {
	var created atomic.Int32
	registry := session.NewRegistry(countingFactory(repository.NewMemorySnapshot(), &created))
	ctx := t.Context()

	alice := uuid.NewString()
	first, err := registry.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, first.OwnerID())

	second, err := registry.Get(ctx, alice)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := registry.Get(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotSame(t, first, other)

	assert.Equal(t, int32(2), created.Load())
	assert.Equal(t, 2, registry.Len())

	_, err = registry.Get(ctx, "")
	require.EqualError(t, err, "sessionID is empty")
}

func TestRegistry_ConcurrentGetCreatesOnce(t *testing.T) {
	var created atomic.Int32
	registry := session.NewRegistry(countingFactory(repository.NewMemorySnapshot(), &created))
	sessionID := uuid.NewString()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.Get(t.Context(), sessionID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestRegistry_FactoryError(t *testing.T) {
	registry := session.NewRegistry(func(context.Context, string) (*cart.Store, error) {
		return nil, errors.New("redis down")
	})

	_, err := registry.Get(t.Context(), "abc")
	require.EqualError(t, err, "session[abc]: redis down")
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_Forget(t *testing.T) {
	var created atomic.Int32
	registry := session.NewRegistry(countingFactory(repository.NewMemorySnapshot(), &created))
	ctx := t.Context()

	_, err := registry.Get(ctx, "abc")
	require.NoError(t, err)

	registry.Forget("abc")
	assert.Equal(t, 0, registry.Len())

	_, err = registry.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int32(2), created.Load())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	var created atomic.Int32
	clock := &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	snapshots := repository.NewMemorySnapshot()
	registry := session.NewRegistry(countingFactory(snapshots, &created), session.WithClock(clock.Now))
	ctx := t.Context()

	_, err := registry.Get(ctx, "idle")
	require.NoError(t, err)
	_, err = registry.Get(ctx, "busy")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = registry.Get(ctx, "busy")
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, registry.Sweep(30*time.Minute))
	assert.Equal(t, 1, registry.Len())

	clock.Advance(time.Hour)
	assert.Equal(t, 1, registry.Sweep(30*time.Minute))
	assert.Equal(t, 0, registry.Len())

	_, err = registry.Get(ctx, "idle")
	require.NoError(t, err)
	assert.Equal(t, int32(3), created.Load())
}

func TestRegistry_EvictedSessionRehydrates(t *testing.T) {
	var created atomic.Int32
	clock := &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	snapshots := repository.NewMemorySnapshot()
	registry := session.NewRegistry(countingFactory(snapshots, &created), session.WithClock(clock.Now))
	ctx := t.Context()

	payload := `[{"id":1,"title":"x","price":{"amount":"10","currency":"BRL"},"image":"","amount":2}]`
	require.NoError(t, snapshots.Set(ctx, "abc", cart.StorageKey, payload))

	first, err := registry.Get(ctx, "abc")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	require.Equal(t, 1, registry.Sweep(time.Minute))

	second, err := registry.Get(ctx, "abc")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Cart(), second.Cart())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	var created atomic.Int32
	registry := session.NewRegistry(countingFactory(repository.NewMemorySnapshot(), &created))

	_, err := registry.Get(t.Context(), "abc")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		registry.Run(ctx, time.Millisecond, 0)
	}()

	require.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
