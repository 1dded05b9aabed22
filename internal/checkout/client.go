package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Fras28/dynnamo-cart/pkg/httpclient"
)

// OrderItem is one line of an order submission, matching the backend's
// checkout contract.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Order is the backend's view of a placed order.
type Order struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"userId"`
	Total  float64 `json:"total"`
	Status string  `json:"status"`
}

// Client submits orders to the storefront backend.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// NewClient creates an orders client for the given backend base URL.
func NewClient(baseURL string, http *httpclient.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
	}
}

// Submit posts the items to the checkout endpoint with the shopper's bearer
// token. Non-2xx responses are translated into AppErrors; the cart must not
// be cleared unless Submit returns nil.
func (c *Client) Submit(ctx context.Context, token string, items []OrderItem) (*Order, error) {
	body, err := json.Marshal(struct {
		Items []OrderItem `json:"items"`
	}{Items: items})
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "orders")
	}
	defer func() { _ = resp.Body.Close() }()

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &order, nil
}
