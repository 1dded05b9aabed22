package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
	"github.com/Fras28/dynnamo-cart/pkg/httpclient"
)

func newTestOrders(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := httpclient.Config{
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 5,
	}
	return NewClient(baseURL, httpclient.New(cfg))
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/checkout", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			Items []OrderItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Items, 2)
		assert.Equal(t, int64(7), payload.Items[0].ProductID)
		assert.Equal(t, 3, payload.Items[0].Quantity)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":44,"userId":9,"total":119.97,"status":"pending"}`))
	}))
	defer srv.Close()

	c := newTestOrders(t, srv.URL)
	order, err := c.Submit(context.Background(), "tok-123", []OrderItem{
		{ProductID: 7, Quantity: 3},
		{ProductID: 12, Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(44), order.ID)
	assert.Equal(t, "pending", order.Status)
}

func TestSubmit_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
	}))
	defer srv.Close()

	c := newTestOrders(t, srv.URL)
	_, err := c.Submit(context.Background(), "expired", []OrderItem{{ProductID: 1, Quantity: 1}})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))
}

func TestSubmit_InsufficientStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Insufficient stock for product 7","statusCode":422}`))
	}))
	defer srv.Close()

	c := newTestOrders(t, srv.URL)
	_, err := c.Submit(context.Background(), "tok", []OrderItem{{ProductID: 7, Quantity: 99}})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "Insufficient stock")
}
