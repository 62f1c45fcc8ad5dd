// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package retry provides exponential backoff and a circuit breaker for
// idempotent backend reads.
package retry

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/propdash/propdash-cli/internal/errors"
)

// ErrCircuitOpen is returned while the breaker is refusing calls
var ErrCircuitOpen = stderrors.New("circuit breaker is open")

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
	}
}

type Client struct {
	config *Config
	logger *slog.Logger
}

// NewClient creates a retry client. A nil logger discards output.
func NewClient(config *Config, logger *slog.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		config: config,
		logger: logger,
	}
}

// DoWithRetry calls fn until it succeeds, returns a non-retryable error,
// runs out of attempts, or ctx is done.
func (c *Client) DoWithRetry(ctx context.Context, fn func() error) error {
	delay := c.config.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.IsRetryable(err) {
			c.logger.Debug("error is not retryable", "error", err)
			return err
		}

		if attempt == c.config.MaxAttempts {
			c.logger.Debug("giving up", "attempts", attempt, "error", err)
			return fmt.Errorf("giving up after %d attempts: %w", attempt, lastErr)
		}

		jitter := time.Duration(rand.Float64() * c.config.Jitter * float64(delay))
		wait := delay + jitter
		c.logger.Debug("retrying",
			"attempt", attempt,
			"max_attempts", c.config.MaxAttempts,
			"delay", wait,
			"error", err,
		)

		select {
		case <-time.After(wait):
			delay = time.Duration(float64(delay) * c.config.Multiplier)
			if delay > c.config.MaxDelay {
				delay = c.config.MaxDelay
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// Do is DoWithRetry for functions that produce a value
func Do[T any](ctx context.Context, c *Client, fn func() (T, error)) (T, error) {
	var result T
	err := c.DoWithRetry(ctx, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker opens after maxFailures consecutive failures and lets a
// trial call through once resetTimeout has passed.
type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures      int
	resetTimeout     time.Duration
	halfOpenRequests int

	failures     int
	lastFailTime time.Time
	state        CircuitState
	successCount int
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenRequests: 2,
		state:            StateClosed,
	}
}

// Call runs fn unless the breaker is open. fn runs without the lock held.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen && time.Since(cb.lastFailTime) > cb.resetTimeout {
		cb.state = StateHalfOpen
		cb.successCount = 0
	}
	if cb.state == StateOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		// only failures the server could cause count toward opening
		if !errors.IsRetryable(err) {
			return err
		}
		cb.lastFailTime = time.Now()
		if cb.state == StateHalfOpen {
			cb.state = StateOpen
			cb.failures = cb.maxFailures
			return err
		}
		cb.failures++
		if cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}
		return err
	}

	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenRequests {
			cb.state = StateClosed
			cb.failures = 0
		}
	case StateClosed:
		if cb.failures > 0 {
			cb.failures--
		}
	}
	return nil
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && time.Since(cb.lastFailTime) > cb.resetTimeout {
		return StateHalfOpen
	}
	return cb.state
}
