package admin

import (
	"errors"
	"fmt"
)

// Notice fragments shared by the panel and CLI surfaces.
const (
	// StatusLoadFailedText is the banner shown when the status endpoint
	// cannot be reached or decoded.
	StatusLoadFailedText = "Failed to load cache status"

	// UnknownErrorText substitutes for a missing server error message.
	UnknownErrorText = "Unknown error"
)

// OutcomeKind discriminates the banner variant.
type OutcomeKind int

const (
	// OutcomeNone means no notice is displayed.
	OutcomeNone OutcomeKind = iota
	// OutcomeSuccess is a positive notice for a completed operation.
	OutcomeSuccess
	// OutcomeFailure is an error notice.
	OutcomeFailure
)

// Outcome is the single most recent user-visible notice. The zero value is
// the empty notice; each new operation replaces it wholesale, and operation
// start clears it.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// Success builds a positive outcome.
func Success(text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

// Failure builds an error outcome.
func Failure(text string) Outcome {
	return Outcome{Kind: OutcomeFailure, Text: text}
}

// None reports whether no notice is held.
func (o Outcome) None() bool {
	return o.Kind == OutcomeNone
}

// RefreshSucceeded builds the success notice for a completed refresh,
// echoing the stringified response payload.
func RefreshSucceeded(key, payload string) Outcome {
	return Success(fmt.Sprintf("✓ %s cache refreshed successfully: %s", key, payload))
}

// ClearSucceeded builds the success notice for a completed clear.
func ClearSucceeded(key string) Outcome {
	return Success(fmt.Sprintf("✓ %s cache cleared successfully", key))
}

// StatusLoadFailed builds the error notice for a failed status fetch.
func StatusLoadFailed() Outcome {
	return Failure(StatusLoadFailedText)
}

// userMessager lets error types supply the operator-facing description
// shown in notices, independent of their diagnostic Error string.
type userMessager interface {
	UserMessage() string
}

// OperationFailed builds the error notice for a failed mutation. The text
// uses the error's UserMessage when implemented, otherwise its Error
// string; an empty description falls back to UnknownErrorText.
func OperationFailed(op Op, key string, err error) Outcome {
	text := ""
	var um userMessager
	switch {
	case err == nil:
	case errors.As(err, &um):
		text = um.UserMessage()
	default:
		text = err.Error()
	}
	if text == "" {
		text = UnknownErrorText
	}
	return Failure(fmt.Sprintf("Failed to %s %s: %s", op, key, text))
}
