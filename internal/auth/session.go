package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/finboard/cachectl/internal/jsonx"
)

// mintPath is the auth-service endpoint that exchanges a session secret for
// a short-lived admin token.
const mintPath = "/v1/session/token"

// maxMintBodySize bounds how much of a mint response is read.
const maxMintBodySize = 1 << 20

// SessionSource mints a fresh bearer token per call from a long-lived
// session secret stored on disk. Minted tokens are never cached: each
// operation presents its own token.
type SessionSource struct {
	origin      string
	sessionFile string
	client      *http.Client
	logger      zerolog.Logger
}

// NewSessionSource builds a SessionSource minting against origin using the
// secret at sessionFile. A nil client falls back to a 15-second-timeout
// default.
func NewSessionSource(origin, sessionFile string, client *http.Client, logger zerolog.Logger) *SessionSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SessionSource{
		origin:      strings.TrimRight(origin, "/"),
		sessionFile: sessionFile,
		client:      client,
		logger:      logger,
	}
}

// Token reads the session secret and exchanges it for a short-lived bearer
// token.
func (s *SessionSource) Token(ctx context.Context) (string, error) {
	secret, err := s.readSecret()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.origin+mintPath, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting admin token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Debug().Err(closeErr).Msg("failed to close token response body")
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("session rejected (status %d): refresh the secret in %s", resp.StatusCode, s.sessionFile)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("minting admin token: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMintBodySize))
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	var minted struct {
		Token string `json:"token"`
	}
	if err := jsonx.Unmarshal(body, &minted); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if minted.Token == "" {
		return "", errors.New("auth service returned an empty token")
	}

	s.logExpiry(minted.Token)
	return minted.Token, nil
}

// readSecret loads and trims the session secret from disk.
func (s *SessionSource) readSecret() (string, error) {
	data, err := os.ReadFile(s.sessionFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w at %s: save your session secret there or set CACHECTL_TOKEN", ErrNoSession, s.sessionFile)
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%w: session file %s is empty", ErrNoSession, s.sessionFile)
	}
	return secret, nil
}

// logExpiry decodes the minted token's exp claim without verification,
// purely so operators can see how long the grant lasts. Verification is the
// backend's job.
func (s *SessionSource) logExpiry(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.logger.Debug().Err(err).Msg("minted token is not a decodable JWT")
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		s.logger.Debug().Msg("minted token carries no expiry claim")
		return
	}
	s.logger.Debug().
		Time("expires_at", exp.Time).
		Dur("valid_for", time.Until(exp.Time)).
		Msg("minted admin token")
}
