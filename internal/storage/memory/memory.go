package memory

import (
	"context"
	"sync"

	"github.com/Fras28/dynnamo-cart/internal/storage"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

// Store is an in-process slot store. Used for development and tests; carts
// do not survive process restarts.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewStore creates an empty in-memory slot store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Factory returns a storage.SlotFactory over this store.
func (s *Store) Factory() storage.SlotFactory {
	return func(sessionID string) storage.Slot {
		return &slot{store: s, key: sessionID}
	}
}

type slot struct {
	store *Store
	key   string
}

func (s *slot) Load(ctx context.Context) ([]byte, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	data, ok := s.store.slots[s.key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *slot) Save(ctx context.Context, data []byte) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.store.slots[s.key] = stored
	return nil
}

func (s *slot) Delete(ctx context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	delete(s.store.slots, s.key)
	return nil
}
