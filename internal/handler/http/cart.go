package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Fras28/dynnamo-cart/internal/cart"
	"github.com/Fras28/dynnamo-cart/internal/checkout"
	"github.com/Fras28/dynnamo-cart/internal/domain"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
	"github.com/Fras28/dynnamo-cart/pkg/httputil"
	"github.com/Fras28/dynnamo-cart/pkg/validator"
)

// ProductFetcher looks up products in the catalog backend. Satisfied by
// *catalog.Client.
type ProductFetcher interface {
	Product(ctx context.Context, id int64) (domain.Product, error)
}

// CheckoutService places orders from a cart. Satisfied by *checkout.Service.
type CheckoutService interface {
	Checkout(ctx context.Context, sessionID, token string, store *cart.Store) (*checkout.Order, error)
}

// CartPublisher emits cart change events. May be nil when events are
// disabled; publish failures never fail the request.
type CartPublisher interface {
	CartUpdated(ctx context.Context, sessionID string, c domain.Cart) error
	CartCleared(ctx context.Context, sessionID string) error
}

// Stores hands out per-session cart stores. Satisfied by *session.Manager.
type Stores interface {
	Store(ctx context.Context, sessionID string) *cart.Store
}

// CartHandler serves the cart HTTP API.
type CartHandler struct {
	stores   Stores
	catalog  ProductFetcher
	checkout CheckoutService
	events   CartPublisher
	logger   *slog.Logger
}

// NewCartHandler creates the cart handler. events may be nil.
func NewCartHandler(stores Stores, catalog ProductFetcher, checkoutSvc CheckoutService, events CartPublisher, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		stores:   stores,
		catalog:  catalog,
		checkout: checkoutSvc,
		events:   events,
		logger:   logger,
	}
}

// Get returns the session's cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// AddItem looks the product up in the catalog and adds it to the cart.
// Adding an already-present product merges quantities into its line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	store := h.store(r)
	store.Add(r.Context(), product, req.Quantity)

	h.publishUpdated(r, store)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// UpdateQuantity sets a line's quantity to an absolute value. Zero or
// negative removes the line; an absent product is a no-op.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	store := h.store(r)
	store.UpdateQuantity(r.Context(), productID, req.Quantity)

	h.publishUpdated(r, store)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// RemoveItem deletes a line. Removing an absent product is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	store := h.store(r)
	store.Remove(r.Context(), productID)

	h.publishUpdated(r, store)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Clear(r.Context())

	if h.events != nil {
		if err := h.events.CartCleared(r.Context(), SessionID(r.Context())); err != nil {
			h.logger.WarnContext(r.Context(), "failed to publish cart cleared event",
				slog.String("error", err.Error()))
		}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// SetOpen toggles the cart drawer's visibility flag.
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req setOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	store := h.store(r)
	store.SetOpen(req.IsOpen)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toCartResponse(store.Snapshot(), store.IsOpen()),
	})
}

// Checkout submits the cart as an order. The shopper's bearer token is
// forwarded to the orders backend; the cart survives failed submissions.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(r.Context())
	store := h.store(r)

	order, err := h.checkout.Checkout(r.Context(), sessionID, bearerToken(r), store)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: checkoutResponse{OrderID: order.ID, Status: order.Status},
	})
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.stores.Store(r.Context(), SessionID(r.Context()))
}

func (h *CartHandler) publishUpdated(r *http.Request, store *cart.Store) {
	if h.events == nil {
		return
	}
	if err := h.events.CartUpdated(r.Context(), SessionID(r.Context()), store.Snapshot()); err != nil {
		h.logger.WarnContext(r.Context(), "failed to publish cart updated event",
			slog.String("error", err.Error()))
	}
}
