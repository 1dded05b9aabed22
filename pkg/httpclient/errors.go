package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

// backendErrorBody mirrors the error shape returned by the storefront backend
// ({"message": "...", "statusCode": 400} or {"message": ["...", "..."]}).
type backendErrorBody struct {
	Message    json.RawMessage `json:"message"`
	StatusCode int             `json:"statusCode"`
}

// ParseResponseError reads the body of a non-2xx response from the storefront
// backend and translates it into an AppError. The response body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := extractMessage(bodyBytes)
	if message == "" {
		message = string(bodyBytes)
	}

	return mapBackendError(resp.StatusCode, message, serviceName)
}

// extractMessage pulls the message field out of a backend error body. The
// backend returns either a plain string or an array of validation messages.
func extractMessage(body []byte) string {
	var parsed backendErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Message == nil {
		return ""
	}

	var single string
	if err := json.Unmarshal(parsed.Message, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(parsed.Message, &many); err == nil && len(many) > 0 {
		return many[0]
	}

	return ""
}

func mapBackendError(status int, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnprocessableEntity:
		return apperrors.CheckoutFailed(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}
