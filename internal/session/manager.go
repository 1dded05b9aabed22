package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Fras28/dynnamo-cart/internal/cart"
	"github.com/Fras28/dynnamo-cart/internal/storage"
)

// Manager owns one hydrated cart store per storefront session. Stores are
// created lazily on first access and hydrated from their persistence slot
// exactly once, so cart state survives process restarts via the slot.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	slots  storage.SlotFactory
	logger *slog.Logger
	opts   []cart.Option
}

// entry pairs a store with a hydration guard so concurrent first accesses
// to the same session all observe hydrated state.
type entry struct {
	store   *cart.Store
	hydrate sync.Once
}

// NewManager creates a session manager over the given slot factory. The
// options are applied to every store it constructs.
func NewManager(slots storage.SlotFactory, logger *slog.Logger, opts ...cart.Option) *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		slots:   slots,
		logger:  logger,
		opts:    opts,
	}
}

// Store returns the cart store for the session, hydrating it on first use.
func (m *Manager) Store(ctx context.Context, sessionID string) *cart.Store {
	m.mu.Lock()
	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{
			store: cart.NewStore(
				m.slots(sessionID),
				m.logger.With(slog.String("session_id", sessionID)),
				m.opts...,
			),
		}
		m.entries[sessionID] = e
	}
	m.mu.Unlock()

	e.hydrate.Do(func() { e.store.Hydrate(ctx) })
	return e.store
}

// Clear empties the session's cart. Used by the logout event consumer when
// the clear-on-logout policy is enabled.
func (m *Manager) Clear(ctx context.Context, sessionID string) {
	m.Store(ctx, sessionID).Clear(ctx)
}

// Evict drops the in-memory store for a session. Persisted state is kept;
// the next access re-hydrates from the slot.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
}

// Len reports the number of resident stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
