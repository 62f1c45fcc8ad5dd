// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	propdashErrors "github.com/propdash/propdash-cli/internal/errors"
)

func fastConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

func retryable() error {
	return &propdashErrors.NetworkError{Err: errors.New("connection reset")}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, config.InitialDelay)
	assert.Equal(t, 10*time.Second, config.MaxDelay)
	assert.Equal(t, 2.0, config.Multiplier)
}

func TestClient_DoWithRetry(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		err          func() error
		wantAttempts int
		wantErr      bool
	}{
		{"succeeds first try", 0, retryable, 1, false},
		{"recovers after transient failure", 1, retryable, 2, false},
		{"gives up after max attempts", 10, retryable, 3, true},
		{
			name:     "does not retry auth errors",
			failures: 10,
			err: func() error {
				return &propdashErrors.AuthError{Message: "bad token"}
			},
			wantAttempts: 1,
			wantErr:      true,
		},
		{
			name:     "retries 503",
			failures: 2,
			err: func() error {
				return &propdashErrors.APIError{StatusCode: 503}
			},
			wantAttempts: 3,
		},
		{
			name:     "does not retry 404",
			failures: 2,
			err: func() error {
				return &propdashErrors.APIError{StatusCode: 404}
			},
			wantAttempts: 1,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(fastConfig(), nil)
			attempts := 0

			err := client.DoWithRetry(context.Background(), func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.err()
				}
				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_DoWithRetry_PreservesErrorType(t *testing.T) {
	client := NewClient(fastConfig(), nil)

	err := client.DoWithRetry(context.Background(), retryable)

	assert.True(t, propdashErrors.IsNetworkError(err))
}

func TestClient_DoWithRetry_ContextCancellation(t *testing.T) {
	config := fastConfig()
	config.InitialDelay = time.Second
	client := NewClient(config, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	attempts := 0
	err := client.DoWithRetry(ctx, func() error {
		attempts++
		return retryable()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}

func TestDo_ReturnsValue(t *testing.T) {
	client := NewClient(fastConfig(), nil)
	calls := 0

	got, err := Do(context.Background(), client, func() (string, error) {
		calls++
		if calls == 1 {
			return "", retryable()
		}
		return "listings", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "listings", got)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)

	for i := 0; i < 2; i++ {
		assert.Error(t, cb.Call(retryable))
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Hour)

	err := cb.Call(func() error { return &propdashErrors.APIError{StatusCode: 400} })

	assert.Error(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	_ = cb.Call(retryable)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	ok := func() error { return nil }
	require.NoError(t, cb.Call(ok))
	require.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	_ = cb.Call(retryable)
	time.Sleep(20 * time.Millisecond)

	assert.Error(t, cb.Call(retryable))
	assert.Equal(t, StateOpen, cb.State())
}
