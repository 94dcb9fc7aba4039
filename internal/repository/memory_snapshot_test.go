package repository_test

import (
	"sync"
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySnapshot(t *testing.T) {
	store := repository.NewMemorySnapshot()
	ctx := t.Context()

	_, found, err := store.Get(ctx, "owner", "storagedCart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "owner", "storagedCart", "[]"))

	got, found, err := store.Get(ctx, "owner", "storagedCart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", got)

	_, found, err = store.Get(ctx, "someone-else", "storagedCart")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = store.Get(ctx, "", "storagedCart")
	require.EqualError(t, err, "ownerID is empty")
}

func TestMemorySnapshot_ConcurrentWriters(t *testing.T) {
	store := repository.NewMemorySnapshot()
	ctx := t.Context()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Set(ctx, "owner", "storagedCart", "[]"))
		}()
	}
	wg.Wait()

	_, found, err := store.Get(ctx, "owner", "storagedCart")
	require.NoError(t, err)
	assert.True(t, found)
}
