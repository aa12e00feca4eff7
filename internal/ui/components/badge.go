// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// StatusLabel title-cases a status for display ("processing" -> "Processing").
func StatusLabel(s model.Status) string {
	if s == "" {
		return "Unknown"
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(string(s))
}

// StatusBadge renders the colored indicator and label for a status.
func StatusBadge(theme *styles.Theme, s model.Status) string {
	return theme.StatusStyle(s).Render(styles.StatusIndicator(s) + " " + StatusLabel(s))
}
