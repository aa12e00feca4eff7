// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/lintara-tui/internal/model"
)

// Theme modes accepted by NewTheme. They match the ui.theme config values.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
// Styles are bound to the theme's renderer so dark/light can be forced
// without touching the terminal's global state.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// CHROME
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderMeta  lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style

	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	StatusInfo   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// ANALYSIS LIST
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListMeta         lipgloss.Style
	ListEmpty        lipgloss.Style
	Badge            lipgloss.Style

	// ==========================================================================
	// REPORT
	// ==========================================================================

	ReportHeader     lipgloss.Style
	ReportBullet     lipgloss.Style
	ReportParagraph  lipgloss.Style
	InlineCode       lipgloss.Style
	Call             lipgloss.Style
	PlaceholderBox   lipgloss.Style
	PlaceholderTitle lipgloss.Style
	PlaceholderText  lipgloss.Style
	Spinner          lipgloss.Style

	// ==========================================================================
	// CODE PANE
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// FORMS AND DIALOGS
	// ==========================================================================

	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style
	FormHint         lipgloss.Style
	DialogBox        lipgloss.Style
	DialogTitle      lipgloss.Style
	ErrorText        lipgloss.Style
}

// NewTheme creates a theme for stdout. mode is "dark", "light" or "auto";
// anything else is treated as auto, which asks the terminal.
func NewTheme(mode string) *Theme {
	return NewThemeWithRenderer(mode, lipgloss.NewRenderer(os.Stdout))
}

// NewThemeFor creates a theme that renders for w, typically a test buffer.
func NewThemeFor(mode string, w io.Writer) *Theme {
	return NewThemeWithRenderer(mode, lipgloss.NewRenderer(w))
}

// NewThemeWithRenderer creates a theme whose styles are bound to r.
func NewThemeWithRenderer(mode string, r *lipgloss.Renderer) *Theme {
	mode = NormalizeMode(mode)
	switch mode {
	case ModeDark:
		r.SetHasDarkBackground(true)
	case ModeLight:
		r.SetHasDarkBackground(false)
	}

	t := &Theme{
		Mode:         mode,
		IsDark:       r.HasDarkBackground(),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// NormalizeMode folds a config value onto one of the Mode constants.
func NormalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// Renderer returns the renderer the theme's styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// NewStyle returns an empty style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Chrome
	t.Header = s().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = s().
		Bold(true).
		Foreground(Purple)

	t.HeaderMeta = s().
		Foreground(TextSecondary).
		Italic(true)

	t.Pane = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PaneFocused = t.Pane.
		BorderForeground(Purple)

	t.PaneTitle = s().
		Foreground(TextSecondary).
		Bold(true)

	t.StatusBar = s().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = s().
		Foreground(Rose).
		Bold(true)

	t.StatusInfo = s().
		Foreground(Emerald)

	t.ShortcutKey = s().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = s().
		Foreground(TextMuted)

	// Analysis list
	t.ListItem = s().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ListItemSelected = s().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.ListMeta = s().
		Foreground(TextMuted)

	t.ListEmpty = s().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 1)

	t.Badge = s().
		Bold(true)

	// Report
	t.ReportHeader = s().
		Foreground(Blue).
		Bold(true).
		MarginTop(1)

	t.ReportBullet = s().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.ReportParagraph = s().
		Foreground(TextPrimary)

	t.InlineCode = s().
		Foreground(Cyan).
		Background(CodeBg)

	t.Call = s().
		Foreground(Mauve).
		Bold(true)

	t.PlaceholderBox = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Purple).
		PaddingLeft(2)

	t.PlaceholderTitle = s().
		Bold(true)

	t.PlaceholderText = s().
		Foreground(TextSecondary)

	t.Spinner = s().
		Foreground(Purple)

	// Code pane
	t.CodeBlock = s().
		Background(SurfaceDim).
		Padding(0, 1)

	t.CodeLangBadge = s().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = s().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Forms and dialogs
	t.FormLabel = s().
		Foreground(TextSecondary)

	t.FormLabelFocused = s().
		Foreground(Cyan).
		Bold(true)

	t.FormHint = s().
		Foreground(TextMuted).
		Italic(true)

	t.DialogBox = s().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 2)

	t.DialogTitle = s().
		Foreground(Amber).
		Bold(true)

	t.ErrorText = s().
		Foreground(Rose)
}

// StatusStyle returns the badge style for an analysis status.
func (t *Theme) StatusStyle(status model.Status) lipgloss.Style {
	return t.Badge.Foreground(StatusColor(status))
}

// PlaceholderStyle returns the placeholder box tinted for a status.
func (t *Theme) PlaceholderStyle(status model.Status) lipgloss.Style {
	return t.PlaceholderBox.BorderForeground(StatusColor(status))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, list and detail stack
	LayoutMedium                   // 60-100 columns, code pane hidden
	LayoutWide                     // > 100 columns, list, report and code side by side
)
