// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package errors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// NoAuthTokenError returns a consistent error message for a missing session token
func NoAuthTokenError() error {
	return fmt.Errorf(`authentication token not configured. You have 2 options:

A) Run 'propdash login' for interactive setup (recommended)
B) Set PROPDASH_TOKEN environment variable in your shell config (e.g., ~/.bashrc, ~/.zshrc)`)
}

type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeAPI
	ErrorTypeNetwork
	ErrorTypeAuth
	ErrorTypeValidation
	ErrorTypeRateLimit
	ErrorTypeTimeout
	ErrorTypeNotFound
)

type APIError struct {
	StatusCode int
	Status     string
	Message    string
	ErrorType  ErrorType
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status %d)", e.Status, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode || e.ErrorType == t.ErrorType
}

type NetworkError struct {
	Err       error
	Operation string
	URL       string
}

func (e *NetworkError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type AuthError struct {
	Message string
	Reason  string
}

func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication failed: %s (%s)", e.Message, e.Reason)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("rate limit exceeded. Please wait %s before retrying", e.RetryAfter)
	}
	return "rate limit exceeded"
}

// EmptySelectionError is returned when a bulk action has no qualifying targets.
// It is raised before any network call.
type EmptySelectionError struct {
	Action string
	Reason string
}

func (e *EmptySelectionError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "no listings selected"
	}
	if e.Action != "" {
		return fmt.Sprintf("%s: %s", e.Action, reason)
	}
	return reason
}

// ServerRejectedError wraps an envelope that came back with success=false.
type ServerRejectedError struct {
	Action  string
	Message string
}

func (e *ServerRejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s was rejected by the server", e.Action)
}

// EmptyResponseError means the request went through but the body was empty or unusable.
type EmptyResponseError struct {
	Operation string
}

func (e *EmptyResponseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("empty response from server during %s", e.Operation)
	}
	return "empty response from server"
}

// ActionInProgressError is returned while another bulk action of the same family is in flight.
type ActionInProgressError struct {
	Family string
}

func (e *ActionInProgressError) Error() string {
	return fmt.Sprintf("a %s update is already in progress", e.Family)
}

var (
	ErrNoAuthToken       = &AuthError{Message: "No session token configured", Reason: "missing_token"}
	ErrInvalidToken      = &AuthError{Message: "Invalid session token", Reason: "invalid_token"}
	ErrExpiredToken      = &AuthError{Message: "Session token has expired", Reason: "expired_token"}
	ErrServerUnavailable = &APIError{StatusCode: 503, Status: "Service Unavailable", ErrorType: ErrorTypeAPI}
	ErrTimeout           = &NetworkError{Err: errors.New("request timeout"), Operation: "API request"}
)

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}

	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}

	return false
}

// IsNoAuthToken reports whether err means no token was available at all.
func IsNoAuthToken(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason == ErrNoAuthToken.Reason
	}
	return false
}

func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

func IsEmptySelection(err error) bool {
	var e *EmptySelectionError
	return errors.As(err, &e)
}

func IsServerRejected(err error) bool {
	var e *ServerRejectedError
	return errors.As(err, &e)
}

func IsEmptyResponse(err error) bool {
	var e *EmptyResponseError
	return errors.As(err, &e)
}

func IsBusy(err error) bool {
	var e *ActionInProgressError
	return errors.As(err, &e)
}

// Message returns a trimmed, user-facing message for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	msg := strings.TrimSpace(FormatUserError(err))
	if msg == "" {
		return fallback
	}
	return msg
}
