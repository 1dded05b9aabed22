package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Fras28/dynnamo-cart/internal/domain"
	"github.com/Fras28/dynnamo-cart/internal/storage"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

var (
	hydrationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_hydration_failures_total",
		Help: "Carts that failed to hydrate from storage and were reset to empty",
	})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Best-effort cart write-backs that failed",
	})

	itemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Units added to carts, counted per quantity",
	})
)

// Store is the authoritative in-memory cart for one storefront session. It
// merges repeat adds by product ID, computes derived totals, and writes its
// state back to a persistence slot after every mutation. Write-backs are
// best effort: persistence failures are logged, never surfaced to callers.
//
// All operations are total: unknown product IDs are no-ops, not errors.
type Store struct {
	mu     sync.Mutex
	cart   domain.Cart
	open   bool
	slot   storage.Slot
	logger *slog.Logger

	stockLimit bool
}

// Option configures a Store.
type Option func(*Store)

// WithStockLimit clamps quantities to the product's available stock at add
// and update time. Off by default: stock is normally enforced at checkout
// by the orders backend, not by the cart.
func WithStockLimit() Option {
	return func(s *Store) { s.stockLimit = true }
}

// NewStore creates an empty store over the given slot. Call Hydrate to load
// previously persisted state; construction itself performs no I/O.
func NewStore(slot storage.Slot, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads persisted state into the store. Missing or corrupt data
// degrades silently to an empty cart; Hydrate never fails.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			hydrationFailures.Inc()
			s.logger.WarnContext(ctx, "cart hydration failed, starting empty",
				slog.String("error", err.Error()),
			)
		}
		s.cart = domain.Cart{}
		return
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		hydrationFailures.Inc()
		s.logger.WarnContext(ctx, "persisted cart is corrupt, starting empty",
			slog.String("error", err.Error()),
		)
		s.cart = domain.Cart{}
		return
	}

	s.cart = cart
}

// Add merges qty into an existing line for the product or appends a new
// line, then reveals the cart UI. A qty below 1 is treated as 1, matching
// the storefront's default when the quantity argument is omitted.
func (s *Store) Add(ctx context.Context, p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.FindLine(p.ID); i >= 0 {
		newQty := s.cart.Lines[i].Quantity + qty
		if s.stockLimit && newQty > p.Stock {
			newQty = p.Stock
		}
		if newQty < 1 {
			newQty = 1
		}
		s.cart.Lines[i].Quantity = newQty
	} else {
		if s.stockLimit && qty > p.Stock {
			qty = p.Stock
		}
		if qty < 1 {
			qty = 1
		}
		s.cart.Lines = append(s.cart.Lines, domain.CartLine{Product: p, Quantity: qty})
	}

	// Repeat adds re-open the cart panel too.
	s.open = true
	itemsAdded.Add(float64(qty))

	s.persist(ctx)
}

// Remove deletes the line for the given product ID. Absent IDs are a no-op.
func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID int64) {
	i := s.cart.FindLine(productID)
	if i < 0 {
		return
	}

	s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
	s.persist(ctx)
}

// UpdateQuantity sets the line's quantity to exactly qty. A qty of zero or
// less deletes the line instead of storing a non-positive quantity. Absent
// IDs are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(ctx, productID)
		return
	}

	i := s.cart.FindLine(productID)
	if i < 0 {
		return
	}

	if s.stockLimit && qty > s.cart.Lines[i].Stock {
		qty = s.cart.Lines[i].Stock
		if qty < 1 {
			qty = 1
		}
	}

	s.cart.Lines[i].Quantity = qty
	s.persist(ctx)
}

// Clear empties the cart unconditionally. The open flag is left untouched.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.Cart{}

	if err := s.slot.Delete(ctx); err != nil {
		persistFailures.Inc()
		s.logger.ErrorContext(ctx, "failed to delete persisted cart",
			slog.String("error", err.Error()),
		)
	}
}

// Total returns the cart total in cents.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// TotalItems returns the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// SetOpen sets the cart panel visibility flag.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// IsOpen reports whether the cart panel is visible.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Snapshot returns a deep copy of the current cart contents.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// persist writes the cart to its slot. Callers must hold s.mu. Errors are
// logged and counted; the mutation has already been applied in memory.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.cart)
	if err != nil {
		persistFailures.Inc()
		s.logger.ErrorContext(ctx, "failed to marshal cart", slog.String("error", err.Error()))
		return
	}

	if err := s.slot.Save(ctx, data); err != nil {
		persistFailures.Inc()
		s.logger.ErrorContext(ctx, "failed to persist cart", slog.String("error", err.Error()))
	}
}
