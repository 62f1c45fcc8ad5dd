// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var statusMessages = map[string]string{
	"INVALID_TOKEN":       "Your session is invalid. Run 'propdash login' again",
	"TOKEN_EXPIRED":       "Your session has expired. Run 'propdash login' again",
	"RATE_LIMIT_EXCEEDED": "Rate limit exceeded. Please wait before retrying",
	"SERVER_ERROR":        "The listings service is experiencing issues. Please try again later",
	"FORBIDDEN":           "You don't have permission to manage these listings",
	"TIMEOUT":             "Request timed out. The operation may still be processing",
	"VALIDATION_ERROR":    "Invalid input provided. Please check your request",
	"LISTING_NOT_FOUND":   "One or more listings could not be found",
}

// StatusMessage returns the user-facing text for a backend error code.
func StatusMessage(code string) string {
	return statusMessages[code]
}

// APIErrorResponse is the error shape the backend sends on non-2xx responses.
// It is a superset of the regular {success, data, message} envelope.
type APIErrorResponse struct {
	Success *bool                  `json:"success"`
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details"`
}

func ParseAPIError(statusCode int, body []byte) error {
	var apiErr APIErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		return createErrorFromAPIResponse(statusCode, apiErr)
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = fmt.Sprintf("API request failed with status %d", statusCode)
	}

	return createErrorFromStatusCode(statusCode, message)
}

func createErrorFromAPIResponse(statusCode int, apiErr APIErrorResponse) error {
	// The code may arrive in either "code" or "error"
	errorCode := strings.ToUpper(apiErr.Code)
	if errorCode == "" {
		errorCode = strings.ToUpper(apiErr.Error)
	}

	switch errorCode {
	case "INVALID_TOKEN", "TOKEN_EXPIRED", "UNAUTHORIZED":
		message := StatusMessage(errorCode)
		if message == "" {
			message = StatusMessage("INVALID_TOKEN")
		}
		return &AuthError{
			Message: message,
			Reason:  strings.ToLower(errorCode),
		}

	case "LISTING_NOT_FOUND":
		message := apiErr.Message
		if message == "" {
			message = StatusMessage(errorCode)
		}
		return &APIError{
			StatusCode: statusCode,
			Status:     http.StatusText(statusCode),
			Message:    message,
			ErrorType:  ErrorTypeNotFound,
		}

	case "RATE_LIMIT_EXCEEDED":
		retryAfter := ""
		if ra, ok := apiErr.Details["retry_after"].(string); ok {
			retryAfter = ra
		}
		return &RateLimitError{RetryAfter: retryAfter}

	case "VALIDATION_ERROR":
		field := ""
		if f, ok := apiErr.Details["field"].(string); ok {
			field = f
		}
		return &ValidationError{
			Field:   field,
			Message: apiErr.Message,
		}
	}

	message := apiErr.Message
	if message == "" {
		message = apiErr.Error
	}

	return createErrorFromStatusCode(statusCode, message)
}

func createErrorFromStatusCode(statusCode int, message string) error {
	var errorType ErrorType

	switch statusCode {
	case 401:
		if message == "" {
			message = StatusMessage("INVALID_TOKEN")
		}
		return &AuthError{Message: message, Reason: "http_401"}

	case 403:
		if message == "" {
			message = StatusMessage("FORBIDDEN")
		}
		return &AuthError{Message: message, Reason: "http_403"}

	case 404:
		errorType = ErrorTypeNotFound
		if message == "" {
			message = "Resource not found"
		}

	case 408:
		errorType = ErrorTypeTimeout
		if message == "" {
			message = StatusMessage("TIMEOUT")
		}

	case 422:
		if message == "" {
			message = StatusMessage("VALIDATION_ERROR")
		}
		return &ValidationError{Message: message}

	case 429:
		errorType = ErrorTypeRateLimit
		if message == "" {
			message = StatusMessage("RATE_LIMIT_EXCEEDED")
		}

	case 500, 502, 503, 504:
		errorType = ErrorTypeAPI
		if message == "" {
			message = StatusMessage("SERVER_ERROR")
		}

	default:
		errorType = ErrorTypeUnknown
		if message == "" {
			message = fmt.Sprintf("Unexpected error (status %d)", statusCode)
		}
	}

	status := http.StatusText(statusCode)
	if status == "" {
		status = fmt.Sprintf("HTTP %d", statusCode)
	}

	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
		ErrorType:  errorType,
	}
}

func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.Error()
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Network error: %v. Please check your connection and try again.", netErr.Err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}

	return err.Error()
}
