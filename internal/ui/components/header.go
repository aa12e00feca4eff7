// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line title bar: brand, signed-in user, service URL
// and an OFFLINE badge when the list comes from the cache.
type Header struct {
	Title    string
	Username string
	BaseURL  string
	Offline  bool
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "lintara",
		Width: 80,
		theme: theme,
	}
}

// SetTheme swaps the theme.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme

	brand := t.HeaderBrand.Render("< " + h.Title + " >")

	var meta []string
	if h.Username != "" {
		meta = append(meta, h.Username)
	}
	if h.BaseURL != "" && t.GetLayoutMode() != styles.LayoutNarrow {
		meta = append(meta, h.BaseURL)
	}
	right := t.HeaderMeta.Render(strings.Join(meta, " @ "))
	if h.Offline {
		right += " " + t.StatusError.Render("[OFFLINE]")
	}

	gap := h.Width - lipgloss.Width(brand) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(h.Width).Render(brand + strings.Repeat(" ", gap) + right)
}
