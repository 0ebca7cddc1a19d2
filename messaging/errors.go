// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
)

// PlatformError is a structured error response from the platform.
// Callers can use errors.As to extract the structured information:
//
//	var platformErr *messaging.PlatformError
//	if errors.As(err, &platformErr) {
//	    if platformErr.Code == messaging.ErrCodeNotFound { ... }
//	}
type PlatformError struct {
	// Code is the platform error code (e.g., "NOT_FOUND").
	Code string `json:"error_code"`
	// Message is the human-readable description from the server.
	Message string `json:"error"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Platform error codes the bot distinguishes.
const (
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidToken = "INVALID_TOKEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnknown      = "UNKNOWN"
)

// IsPlatformError checks whether err is a *PlatformError with the
// given error code.
func IsPlatformError(err error, code string) bool {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Code == code
	}
	return false
}
