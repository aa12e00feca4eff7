// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/lintara-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Field limits enforced by the service.
const (
	MaxTitleLen    = 200
	MaxCodeLen     = 50000
	MaxLanguageLen = 50
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

// AnalysisInput is the body of create and update requests.
type AnalysisInput struct {
	Title       string `json:"title"`
	CodeContent string `json:"code_content"`
	Language    string `json:"language"`
}

// Validate checks the input against the service's field limits so obvious
// mistakes fail before a round trip.
func (in AnalysisInput) Validate() error {
	if err := lengthBetween("title", strings.TrimSpace(in.Title), 1, MaxTitleLen); err != nil {
		return err
	}
	if err := lengthBetween("code_content", in.CodeContent, 1, MaxCodeLen); err != nil {
		return err
	}
	return lengthBetween("language", in.Language, 1, MaxLanguageLen)
}

// RegisterInput is the body of POST /users/.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the registration fields.
func (in RegisterInput) Validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "email: invalid address"}
	}
	if err := lengthBetween("username", in.Username, MinUsernameLen, MaxUsernameLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLen {
		return &ClientError{
			Type:    ErrTypeValidation,
			Message: fmt.Sprintf("password: must be at least %d characters", MinPasswordLen),
		}
	}
	return nil
}

func lengthBetween(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		return &ClientError{
			Type:    ErrTypeValidation,
			Message: fmt.Sprintf("%s: length must be %d-%d, got %d", field, min, max, n),
		}
	}
	return nil
}

// ListOptions pages through GET /analysis/. A zero Limit uses the client's
// page size.
type ListOptions struct {
	Skip  int
	Limit int
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
}

// User is returned by POST /users/.
type User struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	CreatedAt model.Timestamp `json:"created_at"`
}

// messageResponse is the {"message": ...} body of logout.
type messageResponse struct {
	Message string `json:"message"`
}
