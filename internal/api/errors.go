package api

import (
	"fmt"

	"github.com/finboard/cachectl/internal/admin"
)

// ServerError is a non-2xx response from the backend. Message carries the
// server's "error" field when the body had one; it stays empty otherwise
// and notices fall back to a generic description.
type ServerError struct {
	Op         admin.Op
	Key        string
	StatusCode int
	Message    string
}

// Error returns the diagnostic form used in logs and wrapped errors.
func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cache %s %s: backend returned status %d", e.Op, e.Key, e.StatusCode)
	}
	return fmt.Sprintf("cache %s %s: backend returned status %d: %s", e.Op, e.Key, e.StatusCode, e.Message)
}

// UserMessage returns the server-provided description for operator-facing
// notices. Empty when the backend sent none.
func (e *ServerError) UserMessage() string {
	return e.Message
}
