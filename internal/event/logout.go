package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fras28/dynnamo-cart/pkg/kafka"
)

// UserLoggedOutData is the payload of user.logged_out events produced by the
// auth backend.
type UserLoggedOutData struct {
	SessionID string `json:"sessionId"`
	UserID    int64  `json:"userId"`
}

// CartClearer clears a session's cart. Satisfied by *session.Manager.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string)
}

// LogoutHandler clears carts when shoppers log out. Only wired in when
// CLEAR_CART_ON_LOGOUT is enabled.
type LogoutHandler struct {
	carts  CartClearer
	logger *slog.Logger
}

// NewLogoutHandler creates a handler over the session manager.
func NewLogoutHandler(carts CartClearer, logger *slog.Logger) *LogoutHandler {
	return &LogoutHandler{carts: carts, logger: logger}
}

// Handle processes a user.logged_out event. Events without a session ID are
// acknowledged and skipped, not retried.
func (h *LogoutHandler) Handle(ctx context.Context, evt *kafka.Event) error {
	if evt.EventType != TypeUserLoggedOut {
		h.logger.DebugContext(ctx, "ignoring event", slog.String("event_type", evt.EventType))
		return nil
	}

	var data UserLoggedOutData
	if err := evt.DecodeData(&data); err != nil {
		return fmt.Errorf("decode user.logged_out payload: %w", err)
	}
	if data.SessionID == "" {
		h.logger.WarnContext(ctx, "user.logged_out event without session id",
			slog.String("event_id", evt.EventID))
		return nil
	}

	h.carts.Clear(ctx, data.SessionID)
	h.logger.InfoContext(ctx, "cart cleared on logout",
		slog.String("session_id", data.SessionID),
		slog.Int64("user_id", data.UserID))
	return nil
}
