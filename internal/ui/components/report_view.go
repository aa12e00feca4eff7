// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/report"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// =============================================================================
// REPORT VIEW
// =============================================================================

// BulletMarker prefixes bullet blocks. The source marker ("*" or "-") is
// normalized away by the parser.
const BulletMarker = "• "

// ReportView draws a report.Output into the detail pane.
type ReportView struct {
	theme    *styles.Theme
	Width    int
	WordWrap bool
}

// NewReportView creates a report view that wraps at 80 columns.
func NewReportView(theme *styles.Theme) *ReportView {
	return &ReportView{theme: theme, Width: 80, WordWrap: true}
}

// SetTheme swaps the theme, used when the config file changes.
func (v *ReportView) SetTheme(theme *styles.Theme) {
	v.theme = theme
}

// SetWidth updates the wrap width.
func (v *ReportView) SetWidth(width int) {
	v.Width = width
}

// Render draws out. spinnerFrame is shown in front of the processing
// placeholder title and may be empty.
func (v *ReportView) Render(out report.Output, spinnerFrame string) string {
	if out.IsPlaceholder() {
		return v.renderPlaceholder(out, spinnerFrame)
	}
	lines := make([]string, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		lines = append(lines, v.RenderBlock(b))
	}
	return strings.Join(lines, "\n")
}

// RenderBlock draws one block. Blank blocks render as an empty line.
func (v *ReportView) RenderBlock(b report.Block) string {
	t := v.theme
	switch b.Kind {
	case report.BlockHeader:
		return v.wrap(t.ReportHeader, v.Width).Render(b.Text)
	case report.BlockBullet:
		marker := t.ReportBullet.Render(BulletMarker)
		body := v.wrap(t.ReportParagraph, v.Width-lipgloss.Width(marker)).Render(v.RenderSegments(b.Segments))
		return lipgloss.JoinHorizontal(lipgloss.Top, marker, body)
	case report.BlockBlank:
		return ""
	default:
		return v.wrap(t.ReportParagraph, v.Width).Render(v.RenderSegments(b.Segments))
	}
}

// RenderSegments draws inline segments: code spans and calls get their own
// styles, plain text is left as is.
func (v *ReportView) RenderSegments(segs []report.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case report.SegmentCode:
			sb.WriteString(v.theme.InlineCode.Render(s.Text))
		case report.SegmentCall:
			sb.WriteString(v.theme.Call.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

func (v *ReportView) renderPlaceholder(out report.Output, spinnerFrame string) string {
	t := v.theme
	status := placeholderStatus(out.Kind)

	title := out.Title
	if out.Kind == report.OutputProcessing && spinnerFrame != "" {
		title = t.Spinner.Render(spinnerFrame) + " " + title
	}
	titleStyle := t.PlaceholderTitle.Foreground(styles.StatusColor(status))
	body := titleStyle.Render(title) + "\n" + v.wrap(t.PlaceholderText, v.Width-3).Render(out.Detail)
	return t.PlaceholderStyle(status).Render(body)
}

func (v *ReportView) wrap(s lipgloss.Style, width int) lipgloss.Style {
	if !v.WordWrap || width <= 0 {
		return s
	}
	return s.Width(width)
}

func placeholderStatus(k report.OutputKind) model.Status {
	switch k {
	case report.OutputProcessing:
		return model.StatusProcessing
	case report.OutputFailed:
		return model.StatusFailed
	default:
		return model.StatusPending
	}
}
