// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// lineFrames is an ASCII spinner that works in every terminal.
var lineFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner animates the processing placeholder. It only consumes ticks while
// active so an idle dashboard does not redraw.
type Spinner struct {
	spinner   spinner.Model
	isActive  bool
	startTime time.Time
}

// NewSpinner creates an inactive ASCII spinner.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = lineFrames
	return Spinner{spinner: s}
}

// Start activates the spinner and returns its first tick. Starting an active
// spinner returns nil so ticks are not doubled.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner. Pending ticks are ignored.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the duration since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update handles spinner tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// Frame returns the current frame, or "" when stopped.
func (s Spinner) Frame() string {
	if !s.isActive {
		return ""
	}
	return s.spinner.View()
}
