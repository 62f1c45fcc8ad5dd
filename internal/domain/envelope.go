// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"bytes"
	"encoding/json"
)

// Envelope is the response shape every backend-facing call normalizes to.
// Failures that never reached the server (missing token, transport errors)
// are synthesized as Success=false, Data=nil and Message set to the cause.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Message string `json:"message"`

	// Cause is the classified error behind a failed envelope, if any.
	Cause error `json:"-"`
}

// Succeeded wraps data in a successful envelope
func Succeeded[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data, Message: message}
}

// Failure synthesizes a failed envelope from err
func Failure[T any](err error, message string) Envelope[T] {
	if message == "" && err != nil {
		message = err.Error()
	}
	return Envelope[T]{Success: false, Message: message, Cause: err}
}

// DeclaresFailure reports whether a raw payload is an object carrying "success": false.
// Update endpoints can answer HTTP 200 with such a body.
func DeclaresFailure(raw *json.RawMessage) bool {
	if raw == nil {
		return false
	}
	trimmed := bytes.TrimSpace(*raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	return probe.Success != nil && !*probe.Success
}
