package storage

import "context"

// Slot is a named byte slot in a durable key-value store. The cart store
// treats it as an opaque persistence side-channel: one read at hydration,
// one write after every mutation.
type Slot interface {
	// Load returns the slot contents, or apperrors.ErrNotFound when the
	// slot has never been written or has expired.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the slot contents.
	Save(ctx context.Context, data []byte) error

	// Delete removes the slot.
	Delete(ctx context.Context) error
}

// SlotFactory yields the slot backing the cart of one storefront session.
type SlotFactory func(sessionID string) Slot
