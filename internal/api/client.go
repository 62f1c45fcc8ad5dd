// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP gateway to the listings backend. Every call is
// normalized into a domain.Envelope, including failures that never reached
// the server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/propdash/propdash-cli/internal/api/dto"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/models"
	"github.com/propdash/propdash-cli/internal/retry"
	"github.com/propdash/propdash-cli/internal/utils"
	"github.com/propdash/propdash-cli/pkg/version"
)

const (
	DefaultAPIURL  = "https://api.propdash.io"
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID correlates a request with backend logs
	HeaderRequestID = "X-Request-ID"
)

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *slog.Logger
	retryClient    *retry.Client
	circuitBreaker *retry.CircuitBreaker
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryConfig sets the backoff used for listing fetches
func WithRetryConfig(cfg *retry.Config) Option {
	return func(c *Client) { c.retryClient = retry.NewClient(cfg, c.logger) }
}

func NewClient(token, baseURL string, debug bool, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	logger := slog.New(slog.DiscardHandler)
	if debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retryClient == nil {
		c.retryClient = retry.NewClient(retry.DefaultConfig(), c.logger)
	}
	c.circuitBreaker = retry.NewCircuitBreaker(5, 30*time.Second)
	return c
}

// HasToken reports whether the client was configured with a session token
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a fully read HTTP response
type response struct {
	StatusCode int
	Body       []byte
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*response, error) {
	if c.token == "" {
		return nil, errors.ErrNoAuthToken
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(HeaderRequestID, requestID)

	c.logger.Debug("API request",
		"method", method,
		"url", req.URL.String(),
		"request_id", requestID,
		"authorization", utils.RedactAuthHeader(req.Header.Get("Authorization")),
		"has_body", body != nil,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.NetworkError{
			Err:       err,
			Operation: fmt.Sprintf("%s %s", method, path),
			URL:       c.baseURL + path,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.NetworkError{
			Err:       fmt.Errorf("failed to read response body: %w", err),
			Operation: fmt.Sprintf("%s %s", method, path),
			URL:       c.baseURL + path,
		}
	}

	c.logger.Debug("API response",
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
		"bytes", len(respBody),
	)

	return &response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// doRequestWithRetry retries transport errors and retryable statuses behind
// the circuit breaker. Only idempotent requests go through here.
func (c *Client) doRequestWithRetry(ctx context.Context, method, path string) (*response, error) {
	return retry.Do(ctx, c.retryClient, func() (*response, error) {
		var resp *response
		err := c.circuitBreaker.Call(func() error {
			var err error
			resp, err = c.doRequest(ctx, method, path, nil)
			if err != nil {
				return err
			}
			switch {
			case resp.StatusCode >= 500, resp.StatusCode == 429, resp.StatusCode == 408:
				return errors.ParseAPIError(resp.StatusCode, resp.Body)
			}
			return nil
		})
		return resp, err
	})
}

func envelopeFromResponse[T any](resp *response, err error, operation string, policy emptyBodyPolicy) domain.Envelope[T] {
	if err != nil {
		return domain.Failure[T](err, errors.FormatUserError(err))
	}
	if err := ValidateResponse2xx(resp.StatusCode, resp.Body); err != nil {
		return domain.Failure[T](err, errors.FormatUserError(err))
	}
	if resp.StatusCode == http.StatusNoContent {
		return emptyEnvelope[T](policy, operation)
	}
	return decodeEnvelope[T](resp.Body, operation, policy)
}

// FetchListings implements domain.ListingGateway. It is the only call that retries.
func (c *Client) FetchListings(ctx context.Context) domain.Envelope[[]models.RawListing] {
	if c.token == "" {
		return domain.Failure[[]models.RawListing](errors.ErrNoAuthToken, "")
	}
	resp, err := c.doRequestWithRetry(ctx, http.MethodGet, EndpointListings)
	return envelopeFromResponse[[]models.RawListing](resp, err, "listing fetch", emptyIsError)
}

// UpdateActivityStatus implements domain.ListingGateway. An empty 2xx body
// counts as success; only an explicit "success": false is a rejection.
func (c *Client) UpdateActivityStatus(ctx context.Context, ids []string, direction domain.Direction) domain.Envelope[json.RawMessage] {
	if direction.Kind() != domain.KindActivity {
		err := &errors.ValidationError{Field: "action", Value: direction, Message: "must be activate or inactivate"}
		return domain.Failure[json.RawMessage](err, "")
	}
	req := dto.UpdateStatusRequest{IDs: ids, Action: string(direction)}
	resp, err := c.doRequest(ctx, http.MethodPatch, EndpointListingStatus, req)
	return envelopeFromResponse[json.RawMessage](resp, err, "status update", emptyIsSuccess)
}

// UpdateReviewStatus implements domain.ListingGateway. An empty 2xx body
// is an EmptyResponseError.
func (c *Client) UpdateReviewStatus(ctx context.Context, ids []string, enable bool) domain.Envelope[json.RawMessage] {
	req := dto.UpdateReviewsRequest{IDs: ids, EnableReviews: enable}
	resp, err := c.doRequest(ctx, http.MethodPatch, EndpointListingReviews, req)
	return envelopeFromResponse[json.RawMessage](resp, err, "reviews update", emptyIsError)
}

// VerifyAuth returns the account behind the token
func (c *Client) VerifyAuth(ctx context.Context) (*models.UserInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, EndpointAuthMe, nil)
	env := envelopeFromResponse[models.UserInfo](resp, err, "token check", emptyIsError)
	if env.Cause != nil {
		return nil, env.Cause
	}
	if !env.Success || env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = "token was not accepted"
		}
		return nil, &errors.AuthError{Message: msg, Reason: "invalid_token"}
	}
	return env.Data, nil
}
