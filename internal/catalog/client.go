package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/Fras28/dynnamo-cart/internal/domain"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
	"github.com/Fras28/dynnamo-cart/pkg/httpclient"
)

// productPayload mirrors the storefront backend's product JSON. Prices come
// back as decimal numbers (e.g. 19.99) and are converted to cents here.
type productPayload struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  int64   `json:"categoryId"`
}

// Client fetches product snapshots from the storefront backend. Calls run
// through a circuit breaker so catalog outages fail fast.
type Client struct {
	baseURL string
	http    *httpclient.BreakerClient
}

// NewClient creates a catalog client for the given backend base URL.
func NewClient(baseURL string, http *httpclient.BreakerClient) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
	}
}

// Product fetches a single product by ID.
func (c *Client) Product(ctx context.Context, id int64) (domain.Product, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, httpclient.ParseResponseError(resp, "catalog")
	}
	defer func() { _ = resp.Body.Close() }()

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %d: %w", id, err)
	}

	if payload.ID == 0 {
		return domain.Product{}, apperrors.NotFound("product", fmt.Sprintf("%d", id))
	}

	return toDomain(payload), nil
}

func toDomain(p productPayload) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       centsFromDecimal(p.Price),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
	}
}

// centsFromDecimal converts a decimal price to integer cents, rounding
// half away from zero. The cart does all money arithmetic in cents.
func centsFromDecimal(price float64) int64 {
	return int64(math.Round(price * 100))
}
