// Package api is the HTTP client for the cache-admin backend: one
// unauthenticated status read and two bearer-authorized mutations. The
// client performs no retries and keeps no state beyond its configuration;
// in-flight bookkeeping belongs to the callers.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/auth"
	"github.com/finboard/cachectl/internal/jsonx"
	"github.com/finboard/cachectl/internal/logging"
)

// Backend endpoint paths.
const (
	statusPath  = "/api/cache/status"
	refreshPath = "/api/cache/refresh"
	clearPath   = "/api/cache/clear"
)

// maxBodySize bounds how much of any backend response is read.
const maxBodySize = 4 << 20

// Client talks to the cache-admin backend. Mutations present a freshly
// minted bearer token each; the status read is unauthenticated.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  auth.TokenSource
	logger  zerolog.Logger
}

// NewClient builds a Client against baseURL. A nil httpClient falls back to
// a 15-second-timeout default.
func NewClient(baseURL string, tokens auth.TokenSource, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// Status fetches the current cache snapshot.
func (c *Client) Status(ctx context.Context) (admin.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("cache status fetch failed")
		return nil, fmt.Errorf("fetching cache status: %w", err)
	}
	defer c.closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading status response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("cache status fetch rejected")
		return nil, fmt.Errorf("fetching cache status: unexpected status %d", resp.StatusCode)
	}

	snap, err := admin.DecodeSnapshot(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("caches", len(snap)).
		Dur("duration", time.Since(start)).
		Msg("cache status fetched")
	return snap, nil
}

// Refresh asks the backend to repopulate the cache named by key, or every
// cache when key is admin.AllKey. It returns the response payload as
// canonical JSON for the success notice.
func (c *Client) Refresh(ctx context.Context, key string) (string, error) {
	body, err := c.mutate(ctx, admin.OpRefresh, key)
	if err != nil {
		return "", err
	}

	// The notice echoes the payload in canonical compact form.
	var payload any
	if err := jsonx.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	canonical, err := jsonx.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding refresh payload: %w", err)
	}
	return string(canonical), nil
}

// Clear asks the backend to drop the cache named by key. The response body
// is ignored beyond its status code.
func (c *Client) Clear(ctx context.Context, key string) error {
	_, err := c.mutate(ctx, admin.OpClear, key)
	return err
}

// mutationRequest is the wire body both mutations POST.
type mutationRequest struct {
	Type string `json:"type"`
}

// mutationError is the error envelope the backend should attach to non-2xx
// responses. Absence is tolerated.
type mutationError struct {
	Error string `json:"error"`
}

// mutate dispatches one authorized mutation and returns the raw 2xx body.
// Each call mints its own bearer token.
func (c *Client) mutate(ctx context.Context, op admin.Op, key string) ([]byte, error) {
	logger := c.logger.With().
		Str("op_id", logging.NewOpID()).
		Str("op", string(op)).
		Str("cache", key).
		Logger()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("token acquisition failed")
		return nil, err
	}

	reqBody, err := jsonx.Marshal(mutationRequest{Type: key})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", op, err)
	}

	path := refreshPath
	if op == admin.OpClear {
		path = clearPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("mutation transport failed")
		return nil, err
	}
	defer c.closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{Op: op, Key: key, StatusCode: resp.StatusCode}
		var envelope mutationError
		if jsonx.Unmarshal(body, &envelope) == nil {
			serverErr.Message = envelope.Error
		}
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("server_error", serverErr.Message).
			Dur("duration", time.Since(start)).
			Msg("mutation rejected")
		return nil, serverErr
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("mutation completed")
	return body, nil
}

// closeBody closes the response body; close failures only matter to logs.
func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("failed to close response body")
	}
}
