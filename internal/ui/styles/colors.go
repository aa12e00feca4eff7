// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/model"
)

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - Primary accent, selection, headers
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, keys, inline code
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Blue - Report section headers
var Blue = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

// Mauve - Function call highlights
var Mauve = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

// =============================================================================
// STATUS COLORS
// =============================================================================

// Emerald - completed analyses
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - processing analyses, warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - failed analyses, errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Slate - pending and unrecognized statuses
var Slate = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9399B2"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}
var CodeBg = lipgloss.AdaptiveColor{Light: "#EEF2FF", Dark: "#2A2B3D"}

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// StatusColor maps an analysis status to its color. Statuses outside the
// documented set share the pending grey.
func StatusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusCompleted:
		return Emerald
	case model.StatusProcessing:
		return Amber
	case model.StatusFailed:
		return Rose
	default:
		return Slate
	}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains ASCII shapes shown next to status colors so
// states stay distinguishable without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators is the ASCII indicator set.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

// StatusIndicator returns the shape for an analysis status.
func StatusIndicator(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return StatusIndicators.Success
	case model.StatusProcessing:
		return StatusIndicators.Warning
	case model.StatusFailed:
		return StatusIndicators.Error
	case model.StatusPending:
		return StatusIndicators.Pending
	default:
		return StatusIndicators.Info
	}
}
