// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/lintara-tui/internal/model"
)

func TestNormalizeMode(t *testing.T) {
	tests := map[string]string{
		"dark":    ModeDark,
		" LIGHT ": ModeLight,
		"auto":    ModeAuto,
		"":        ModeAuto,
		"neon":    ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeMode(in), in)
	}
}

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewThemeFor(ModeDark, io.Discard)
	assert.True(t, dark.IsDark)
	assert.Equal(t, ModeDark, dark.Mode)

	light := NewThemeFor(ModeLight, io.Discard)
	assert.False(t, light.IsDark)
	assert.Equal(t, ModeLight, light.Mode)
	assert.NotNil(t, light.Renderer())
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewThemeFor(ModeDark, io.Discard)
	for name, st := range map[string]interface{ Render(...string) string }{
		"Header":       theme.Header,
		"ReportHeader": theme.ReportHeader,
		"InlineCode":   theme.InlineCode,
		"Call":         theme.Call,
		"ListSelected": theme.ListItemSelected,
		"DialogBox":    theme.DialogBox,
	} {
		assert.Contains(t, st.Render("x"), "x", name)
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, Emerald, StatusColor(model.StatusCompleted))
	assert.Equal(t, Amber, StatusColor(model.StatusProcessing))
	assert.Equal(t, Rose, StatusColor(model.StatusFailed))
	assert.Equal(t, Slate, StatusColor(model.StatusPending))
	assert.Equal(t, Slate, StatusColor(model.Status("processing..")))
}

func TestStatusIndicator(t *testing.T) {
	assert.Equal(t, "[OK]", StatusIndicator(model.StatusCompleted))
	assert.Equal(t, "[X]", StatusIndicator(model.StatusFailed))
	assert.Equal(t, "[ ]", StatusIndicator(model.StatusPending))
	assert.Equal(t, "[i]", StatusIndicator(model.Status("archived")))
}

func TestLayoutMode(t *testing.T) {
	theme := NewThemeFor(ModeAuto, io.Discard)
	theme.SetSize(40, 20)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())
	theme.SetSize(80, 20)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())
	theme.SetSize(140, 20)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
}
