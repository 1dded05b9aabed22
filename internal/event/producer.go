package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fras28/dynnamo-cart/internal/checkout"
	"github.com/Fras28/dynnamo-cart/internal/domain"
	"github.com/Fras28/dynnamo-cart/pkg/kafka"
	"github.com/Fras28/dynnamo-cart/pkg/logger"
)

// Topics for cart lifecycle events.
const (
	TopicCartUpdated    = "dynnamo.cart.updated"
	TopicCartCleared    = "dynnamo.cart.cleared"
	TopicOrderCompleted = "dynnamo.order.completed"

	// TopicUserLoggedOut is produced by the auth backend and consumed here.
	TopicUserLoggedOut = "dynnamo.user.logged_out"
)

// Event types carried in the envelope.
const (
	TypeCartUpdated    = "cart.updated"
	TypeCartCleared    = "cart.cleared"
	TypeOrderCompleted = "order.completed"
	TypeUserLoggedOut  = "user.logged_out"
)

const aggregateTypeCart = "cart"

// Publisher is the kafka subset the producer needs. Satisfied by
// *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// CartUpdatedData is the payload of cart.updated events.
type CartUpdatedData struct {
	SessionID  string `json:"sessionId"`
	TotalItems int    `json:"totalItems"`
	Total      int64  `json:"total"`
}

// OrderCompletedData is the payload of order.completed events.
type OrderCompletedData struct {
	SessionID string          `json:"sessionId"`
	OrderID   int64           `json:"orderId"`
	Status    string          `json:"status"`
	Lines     []OrderLineData `json:"lines"`
}

// OrderLineData is one cart line at the moment of checkout.
type OrderLineData struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Producer publishes cart lifecycle events to Kafka.
type Producer struct {
	publisher Publisher
	source    string
	logger    *slog.Logger
}

// NewProducer creates an event producer. source identifies this service in
// event envelopes.
func NewProducer(publisher Publisher, source string, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		source:    source,
		logger:    logger,
	}
}

// CartUpdated publishes a cart.updated event with the cart's new totals.
func (p *Producer) CartUpdated(ctx context.Context, sessionID string, c domain.Cart) error {
	data := CartUpdatedData{
		SessionID:  sessionID,
		TotalItems: c.TotalItems(),
		Total:      c.Total(),
	}
	return p.publish(ctx, TopicCartUpdated, TypeCartUpdated, sessionID, data)
}

// CartCleared publishes a cart.cleared event.
func (p *Producer) CartCleared(ctx context.Context, sessionID string) error {
	data := CartUpdatedData{SessionID: sessionID}
	return p.publish(ctx, TopicCartCleared, TypeCartCleared, sessionID, data)
}

// OrderCompleted publishes an order.completed event carrying the cart
// contents that became the order.
func (p *Producer) OrderCompleted(ctx context.Context, sessionID string, order *checkout.Order, c domain.Cart) error {
	lines := make([]OrderLineData, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, OrderLineData{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
	}

	data := OrderCompletedData{
		SessionID: sessionID,
		OrderID:   order.ID,
		Status:    order.Status,
		Lines:     lines,
	}
	return p.publish(ctx, TopicOrderCompleted, TypeOrderCompleted, sessionID, data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, sessionID string, data any) error {
	evt, err := kafka.NewEvent(eventType, sessionID, aggregateTypeCart, p.source, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		evt = evt.WithCorrelationID(correlationID)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
