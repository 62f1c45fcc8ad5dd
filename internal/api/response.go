// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
)

// ValidateResponse returns the classified API error when the status is not allowed
func ValidateResponse(statusCode int, body []byte, allowedCodes ...int) error {
	if len(allowedCodes) == 0 {
		allowedCodes = []int{http.StatusOK}
	}

	for _, code := range allowedCodes {
		if statusCode == code {
			return nil
		}
	}

	return errors.ParseAPIError(statusCode, body)
}

// ValidateResponseOK validates that the response status is 200 OK
func ValidateResponseOK(statusCode int, body []byte) error {
	return ValidateResponse(statusCode, body, http.StatusOK)
}

// ValidateResponse2xx accepts 200, 201, 202 and 204
func ValidateResponse2xx(statusCode int, body []byte) error {
	return ValidateResponse(statusCode, body,
		http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent)
}

// isEmptyBody reports whether a body carries nothing usable: no bytes, null, or {}
func isEmptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		return len(obj) == 0
	}
	return false
}

// emptyBodyPolicy says what a 2xx response with nothing in it means
type emptyBodyPolicy int

const (
	// emptyIsError reports EmptyResponseError
	emptyIsError emptyBodyPolicy = iota
	// emptyIsSuccess reports a successful envelope without data
	emptyIsSuccess
)

// emptyEnvelope applies policy to a response that carried no usable body
func emptyEnvelope[T any](policy emptyBodyPolicy, operation string) domain.Envelope[T] {
	if policy == emptyIsSuccess {
		return domain.Envelope[T]{Success: true}
	}
	return domain.Failure[T](&errors.EmptyResponseError{Operation: operation}, "")
}

// decodeEnvelope normalizes a 2xx body into an Envelope.
//
// Bodies that carry a "success" key are read as {success, data, message}.
// Anything else (a bare array or an object without "success") is taken as
// the data of a successful envelope.
func decodeEnvelope[T any](body []byte, operation string, policy emptyBodyPolicy) domain.Envelope[T] {
	if isEmptyBody(body) {
		return emptyEnvelope[T](policy, operation)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		if _, ok := probe["success"]; ok {
			var env domain.Envelope[T]
			if err := json.Unmarshal(body, &env); err != nil {
				return domain.Failure[T](fmt.Errorf("failed to decode %s response: %w", operation, err), "")
			}
			return env
		}
	}

	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.Failure[T](fmt.Errorf("failed to decode %s response: %w", operation, err), "")
	}
	return domain.Succeeded(data, "")
}
