// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// outputStyles are the styles for plain command output. They are bound to
// the command's writer so piped output carries no escape codes.
type outputStyles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Dim     lipgloss.Style
}

func newOutputStyles(w io.Writer, colors bool) outputStyles {
	r := lipgloss.NewRenderer(w)
	if !colors {
		r.SetColorProfile(termenv.Ascii)
	}
	return outputStyles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(styles.Cyan),
		Section: r.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary),
		Label: r.NewStyle().
			Foreground(styles.TextSecondary).
			Width(14),
		Value: r.NewStyle().
			Foreground(styles.TextPrimary),
		Success: r.NewStyle().
			Foreground(styles.Emerald).
			Bold(true),
		Error: r.NewStyle().
			Foreground(styles.Rose).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(styles.Amber),
		Dim: r.NewStyle().
			Foreground(styles.TextMuted),
	}
}

// Separator returns a line of width dashes.
func Separator(width int) string {
	if width < 1 {
		width = 1
	}
	return strings.Repeat("-", width)
}
