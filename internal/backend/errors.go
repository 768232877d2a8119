package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the backend.  Message holds the
// backend's own wording, untouched, because the checkout screen promises
// to show server rejections verbatim (e.g. "Offer expired").
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// decodeAPIError extracts the message from an error response.  The
// backend usually answers {"message": "..."}; some endpoints return a
// bare string body instead, and a few return nothing at all.
func decodeAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
