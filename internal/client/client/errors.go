package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable covers transport failures: dial errors, timeouts and
	// gateway responses.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized covers rejected or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation covers requests the server refused as malformed.
	ErrValidation = errors.New("validation failed")
	// ErrServer covers any other non-2xx response.
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx response. Message holds the server's "message"
// field when present. Kind is one of the sentinels above.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// NewValidationError builds a locally detected validation failure.
func NewValidationError(msg string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: msg, Kind: ErrValidation}
}

func kindForStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrServer
	}
}

// newAPIError decodes a failure body of the form {"message": "..."}.
// Bodies that are not JSON or lack the field leave Message empty.
func newAPIError(code int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	return &APIError{
		StatusCode: code,
		Message:    strings.TrimSpace(payload.Message),
		Kind:       kindForStatus(code),
	}
}

// transportError classifies an error returned by http.Client.Do.
// Cancellation by the caller is passed through untouched.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

const (
	msgUnavailable  = "Server is unavailable, please try again later"
	msgUnauthorized = "Authentication failed"
	msgValidation   = "Invalid request"
	msgGeneric      = "Something went wrong, please try again"
)

// Message renders err as a non-empty string fit for display: the server's
// message when it sent one, a generic text for the error's kind otherwise.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	switch {
	case errors.Is(err, ErrUnavailable):
		return msgUnavailable
	case errors.Is(err, ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, ErrValidation):
		return msgValidation
	default:
		return msgGeneric
	}
}
