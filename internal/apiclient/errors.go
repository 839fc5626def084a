package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

const networkErrorMessage = "Network error"

// ValidationError is missing local input. It is raised before any request
// is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

func (e *ValidationError) UserMessage() string {
	return e.Message
}

// APIError is a non-2xx answer from the API. Message is the body's
// "message" field and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure, or a response body that could not be
// read as JSON.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to a user for err. Errors that carry their
// own user message win; API errors surface the server message verbatim, or
// fallback when the server sent none.
func UserMessage(err error, fallback string) string {
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		return msg.UserMessage()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if strings.TrimSpace(apiErr.Message) != "" {
			return apiErr.Message
		}
		return fallback
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return networkErrorMessage
	}
	return fallback
}

func Invalid(message string) error {
	return &ValidationError{Message: message}
}
