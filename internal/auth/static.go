package auth

import (
	"context"
	"os"

	"github.com/finboard/cachectl/internal/config"
)

// StaticSource returns one fixed token on every call. It backs the
// CACHECTL_TOKEN escape hatch and test stubs.
type StaticSource struct {
	token string
}

// NewStatic builds a StaticSource around token.
func NewStatic(token string) *StaticSource {
	return &StaticSource{token: token}
}

// StaticFromEnv returns a StaticSource from CACHECTL_TOKEN, or false when
// the variable is unset.
func StaticFromEnv() (*StaticSource, bool) {
	token := os.Getenv(config.EnvToken)
	if token == "" {
		return nil, false
	}
	return NewStatic(token), true
}

// Token returns the fixed token.
func (s *StaticSource) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}
