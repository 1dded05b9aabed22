package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fras28/dynnamo-cart/internal/cart"
	"github.com/Fras28/dynnamo-cart/internal/domain"
	"github.com/Fras28/dynnamo-cart/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStore_SameSessionSameStore(t *testing.T) {
	m := NewManager(memory.NewStore().Factory(), testLogger())
	ctx := context.Background()

	a := m.Store(ctx, "sess-1")
	b := m.Store(ctx, "sess-1")

	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())
}

func TestStore_DistinctSessionsAreIsolated(t *testing.T) {
	m := NewManager(memory.NewStore().Factory(), testLogger())
	ctx := context.Background()

	m.Store(ctx, "sess-1").Add(ctx, domain.Product{ID: 1, Price: 1000}, 2)
	m.Store(ctx, "sess-2").Add(ctx, domain.Product{ID: 2, Price: 500}, 1)

	assert.Equal(t, int64(2000), m.Store(ctx, "sess-1").Total())
	assert.Equal(t, int64(500), m.Store(ctx, "sess-2").Total())
}

func TestStore_HydratesFromSlotAfterEvict(t *testing.T) {
	backing := memory.NewStore()
	m := NewManager(backing.Factory(), testLogger())
	ctx := context.Background()

	m.Store(ctx, "sess-1").Add(ctx, domain.Product{ID: 1, Price: 1000}, 3)
	m.Evict("sess-1")
	require.Equal(t, 0, m.Len())

	restored := m.Store(ctx, "sess-1")
	assert.Equal(t, int64(3000), restored.Total())
	assert.Equal(t, 3, restored.TotalItems())
}

func TestStore_ConcurrentFirstAccess(t *testing.T) {
	m := NewManager(memory.NewStore().Factory(), testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	stores := make([]*cart.Store, 16)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = m.Store(ctx, "sess-1")
		}(i)
	}
	wg.Wait()

	for _, s := range stores[1:] {
		assert.Same(t, stores[0], s)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(memory.NewStore().Factory(), testLogger())
	ctx := context.Background()

	m.Store(ctx, "sess-1").Add(ctx, domain.Product{ID: 1, Price: 1000}, 2)
	m.Clear(ctx, "sess-1")

	assert.Equal(t, int64(0), m.Store(ctx, "sess-1").Total())
}

func TestManagerOptions_ApplyToNewStores(t *testing.T) {
	m := NewManager(memory.NewStore().Factory(), testLogger(), cart.WithStockLimit())
	ctx := context.Background()

	s := m.Store(ctx, "sess-1")
	s.Add(ctx, domain.Product{ID: 1, Price: 1000, Stock: 2}, 9)

	assert.Equal(t, 2, s.TotalItems())
}
