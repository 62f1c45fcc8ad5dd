// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package utils

import (
	"fmt"
	"strings"
)

// MaskToken masks a session token for display, showing only the first 4 characters
func MaskToken(token string) string {
	if token == "" {
		return ""
	}

	if len(token) <= 8 {
		if len(token) <= 2 {
			return strings.Repeat("*", len(token))
		}
		return token[:2] + strings.Repeat("*", len(token)-2)
	}

	return token[:4] + strings.Repeat("*", len(token)-4)
}

// RedactAuthHeader redacts the Authorization header value for logging
func RedactAuthHeader(headerValue string) string {
	if headerValue == "" {
		return ""
	}

	if token, ok := strings.CutPrefix(headerValue, "Bearer "); ok {
		return "Bearer " + MaskToken(token)
	}

	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) == 2 {
		return parts[0] + " " + MaskToken(parts[1])
	}

	return MaskToken(headerValue)
}

// SanitizeErrorMessage masks token and any bearer credentials in err's message
func SanitizeErrorMessage(err error, token string) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	if token != "" && strings.Contains(errMsg, token) {
		errMsg = strings.ReplaceAll(errMsg, token, MaskToken(token))
	}

	if idx := strings.Index(errMsg, "Bearer "); idx >= 0 {
		endIdx := idx + 7
		for endIdx < len(errMsg) && errMsg[endIdx] != ' ' && errMsg[endIdx] != '"' {
			endIdx++
		}
		if endIdx > idx+7 {
			bearer := errMsg[idx+7 : endIdx]
			errMsg = strings.ReplaceAll(errMsg, "Bearer "+bearer, "Bearer "+MaskToken(bearer))
		}
	}

	return errMsg
}

// ClearByteSlice overwrites b with zeros
func ClearByteSlice(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeToken trims whitespace and a pasted "Bearer " prefix, then
// performs basic format checks without revealing what is wrong.
func NormalizeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	if token == "" {
		return "", fmt.Errorf("token is required")
	}
	if len(token) < 10 {
		return "", fmt.Errorf("invalid token format")
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return "", fmt.Errorf("token contains invalid characters")
	}
	return token, nil
}
