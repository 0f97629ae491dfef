package botapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the bot's API. Message carries the
// server's "error" field verbatim so it can be shown to the operator
// unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
}

// IsNotFound returns true for 404 responses, which the backend uses for
// "order not found" and "position not found" rejections.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError means the request never produced an HTTP response:
// connection refused, DNS failure, timeout.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport-layer failure rather than
// an API rejection.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// errorResponse is the JSON shape of backend error bodies.
type errorResponse struct {
	Error string `json:"error"`
}

// CheckResponse returns an *APIError when the response status indicates
// failure, nil otherwise.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		// Body is not JSON, keep the status text.
		return apiErr
	}
	apiErr.Message = errResp.Error

	return apiErr
}

// DecodeJSON decodes a response body into target. A malformed body on a
// 2xx response is reported as an *APIError because the contract, not the
// transport, was violated.
func DecodeJSON(resp *http.Response, target interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response body: %v", err),
		}
	}
	return nil
}
