// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the lintara dashboard.

All colors are Lip Gloss AdaptiveColor values so one palette serves dark and
light terminals.

# Color System (colors.go)

  - Purple, Cyan, Blue, Mauve - accents, keys, report headers, calls
  - Emerald, Amber, Rose, Slate - completed, processing, failed, other

StatusColor and StatusIndicator map an analysis status onto a color and an
ASCII shape ([OK], [!], [X], [ ], [i]).

# Themes (theme.go)

A Theme owns a lipgloss.Renderer. The ui.theme config value picks the mode:

	"dark"  - force the dark variants
	"light" - force the light variants
	"auto"  - ask the terminal (termenv background query)

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	badge := theme.StatusStyle(rec.Status).Render(string(rec.Status))

Tests build themes against a buffer:

	theme := styles.NewThemeFor(styles.ModeDark, io.Discard)
*/
package styles
