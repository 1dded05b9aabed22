package checkout

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Fras28/dynnamo-cart/internal/cart"
	"github.com/Fras28/dynnamo-cart/internal/domain"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

var checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cart_checkouts_total",
	Help: "Checkout attempts by outcome",
}, []string{"outcome"})

// EventPublisher publishes order lifecycle events. The Kafka-backed
// implementation lives in internal/event.
type EventPublisher interface {
	OrderCompleted(ctx context.Context, sessionID string, order *Order, c domain.Cart) error
}

// OrderSubmitter submits an order to the backend. Satisfied by *Client.
type OrderSubmitter interface {
	Submit(ctx context.Context, token string, items []OrderItem) (*Order, error)
}

// Service orchestrates checkout: it turns the cart into an order submission,
// clears the cart only once the backend accepts the order, and emits an event
// for downstream consumers.
type Service struct {
	orders OrderSubmitter
	events EventPublisher
	logger *slog.Logger
}

// NewService creates a checkout service. events may be nil when event
// publishing is disabled.
func NewService(orders OrderSubmitter, events EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		orders: orders,
		events: events,
		logger: logger,
	}
}

// Checkout submits the store's current lines as an order. The cart is left
// untouched when submission fails, so the shopper can retry.
func (s *Service) Checkout(ctx context.Context, sessionID, token string, store *cart.Store) (*Order, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("a login token is required to check out")
	}

	snapshot := store.Snapshot()
	if len(snapshot.Lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]OrderItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.orders.Submit(ctx, token, items)
	if err != nil {
		checkouts.WithLabelValues("failed").Inc()
		return nil, err
	}
	checkouts.WithLabelValues("completed").Inc()

	store.Clear(ctx)

	if s.events != nil {
		if err := s.events.OrderCompleted(ctx, sessionID, order, snapshot); err != nil {
			// The order is already placed; a lost event must not fail checkout.
			s.logger.WarnContext(ctx, "failed to publish order completed event",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.Int64("order_id", order.ID),
		slog.Int("items", len(items)))

	return order, nil
}
