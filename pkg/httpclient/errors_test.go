package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_NotFound(t *testing.T) {
	resp := fakeResponse(http.StatusNotFound, `{"message":"Product not found","statusCode":404}`)

	err := ParseResponseError(resp, "catalog")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "Product not found")
}

func TestParseResponseError_ValidationMessageArray(t *testing.T) {
	resp := fakeResponse(http.StatusBadRequest, `{"message":["quantity must be positive","items should not be empty"],"statusCode":400}`)

	err := ParseResponseError(resp, "orders")

	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "quantity must be positive")
}

func TestParseResponseError_CheckoutRejection(t *testing.T) {
	resp := fakeResponse(http.StatusUnprocessableEntity, `{"message":"Insufficient stock for product 3"}`)

	err := ParseResponseError(resp, "orders")

	assert.True(t, errors.Is(err, apperrors.ErrCheckoutFailed))
}

func TestParseResponseError_Unauthorized(t *testing.T) {
	resp := fakeResponse(http.StatusUnauthorized, `{"message":"Unauthorized"}`)

	err := ParseResponseError(resp, "orders")

	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := fakeResponse(http.StatusBadGateway, "upstream exploded")

	err := ParseResponseError(resp, "catalog")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}
