// Package auth produces the bearer tokens that authorize cache mutations.
//
// The single capability consumers depend on is TokenSource. The production
// implementation mints a short-lived token per call from a long-lived
// session secret; a static implementation serves scripts and tests.
package auth

import (
	"context"
	"errors"
)

// TokenSource produces a bearer token for one mutation. Every call must
// yield a usable token; implementations never cache across calls, so each
// operation is authorized independently.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ErrNoSession means no session secret is available to mint tokens from.
var ErrNoSession = errors.New("no admin session found")
