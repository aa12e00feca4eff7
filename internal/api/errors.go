// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the analysis service client.
type ClientError struct {
	Type ErrorType
	// Status is the HTTP status code, or 0 when no response was received.
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same type, so errors.Is(err,
// ErrUnauthorized) holds for every 401 regardless of message.
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnauthorized
	ErrTypeNotFound
	ErrTypeValidation
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeServer
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeUnauthorized:
		return "unauthorized"
	case ErrTypeNotFound:
		return "not_found"
	case ErrTypeValidation:
		return "validation"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrUnauthorized    = &ClientError{Type: ErrTypeUnauthorized, Message: "not authenticated"}
	ErrNotFound        = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
	ErrValidation      = &ClientError{Type: ErrTypeValidation, Message: "invalid request"}
	ErrConnection      = &ClientError{Type: ErrTypeConnection, Message: "service unreachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response"}
	ErrServer          = &ClientError{Type: ErrTypeServer, Message: "server error"}
)

// IsUnauthorized reports whether the session token is missing or expired.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound reports whether the record does not exist for this user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// =============================================================================
// RESPONSE DECODING
// =============================================================================

// typeForStatus maps an HTTP status to an error category.
func typeForStatus(status int) ErrorType {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrTypeUnauthorized
	case status == http.StatusNotFound:
		return ErrTypeNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrTypeValidation
	case status >= 500:
		return ErrTypeServer
	default:
		return ErrTypeUnknown
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// detailMessage extracts the FastAPI "detail" field. It is either a string or
// a list of validation failures. An unreadable body yields "".
func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var list []validationDetail
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, d := range list {
			msgs = append(msgs, formatLoc(d.Loc)+d.Msg)
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// formatLoc renders ["body","title"] as "title: ", dropping the "body" root.
func formatLoc(loc []interface{}) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		if i == 0 && p == "body" {
			continue
		}
		parts = append(parts, fmt.Sprint(p))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ".") + ": "
}

// statusError builds the ClientError for a non-2xx response.
func statusError(status int, statusText string, body []byte) *ClientError {
	msg := detailMessage(body)
	if msg == "" {
		msg = statusText
	}
	return &ClientError{Type: typeForStatus(status), Status: status, Message: msg}
}
