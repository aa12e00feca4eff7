// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows the last message or error on the left and the polling
// state on the right.
type StatusBar struct {
	theme *styles.Theme
	Width int

	message string
	isError bool

	Loading     bool
	Polling     bool
	Interval    time.Duration
	LastRefresh time.Time

	// Now is used for the refresh age. Defaults to time.Now.
	Now func() time.Time
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80, Now: time.Now}
}

// SetTheme swaps the theme.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetInfo shows an informational message.
func (s *StatusBar) SetInfo(msg string) {
	s.message = msg
	s.isError = false
}

// SetError shows an error message. A nil error clears the bar.
func (s *StatusBar) SetError(err error) {
	if err == nil {
		s.Clear()
		return
	}
	s.message = err.Error()
	s.isError = true
}

// Clear removes the message.
func (s *StatusBar) Clear() {
	s.message = ""
	s.isError = false
}

// Message returns the current message and whether it is an error.
func (s *StatusBar) Message() (string, bool) {
	return s.message, s.isError
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	left := s.message
	switch {
	case s.isError:
		left = t.StatusError.Render(styles.StatusIndicators.Error + " " + left)
	case left != "":
		left = t.StatusInfo.Render(left)
	}

	var right []string
	if s.Loading {
		right = append(right, "refreshing...")
	}
	if s.Polling {
		right = append(right, "polling every "+s.Interval.String())
	}
	if !s.LastRefresh.IsZero() {
		now := time.Now()
		if s.Now != nil {
			now = s.Now()
		}
		right = append(right, "updated "+RelativeTime(s.LastRefresh, now))
	}
	rightText := t.ShortcutDesc.Render(strings.Join(right, " · "))

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(rightText) - 2
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(s.Width).MaxHeight(1).Render(left + strings.Repeat(" ", gap) + rightText)
}
