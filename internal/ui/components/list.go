// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/reconcile"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
	"github.com/jeranaias/lintara-tui/internal/util"
)

// EmptyHint is shown when the account has no analyses.
const EmptyHint = "No analyses yet. Submit your first code to get started!"

// rowHeight is the number of lines each record takes.
const rowHeight = 2

// =============================================================================
// ANALYSIS LIST
// =============================================================================

// AnalysisList renders the record list with the selected row highlighted.
// It holds no selection of its own; the dashboard passes the controller's.
type AnalysisList struct {
	theme     *styles.Theme
	records   []model.AnalysisRecord
	selection reconcile.Selection
	offset    int

	Width  int
	Height int

	// Now is used for relative times. Defaults to time.Now.
	Now func() time.Time
}

// NewAnalysisList creates an empty list.
func NewAnalysisList(theme *styles.Theme) *AnalysisList {
	return &AnalysisList{theme: theme, Width: 40, Height: 20, Now: time.Now}
}

// SetTheme swaps the theme.
func (l *AnalysisList) SetTheme(theme *styles.Theme) {
	l.theme = theme
}

// SetSize updates the list dimensions.
func (l *AnalysisList) SetSize(width, height int) {
	l.Width = width
	l.Height = height
	l.clampOffset()
}

// SetRecords replaces the rows.
func (l *AnalysisList) SetRecords(records []model.AnalysisRecord) {
	l.records = records
	l.clampOffset()
}

// SetSelection moves the highlight and scrolls it into view.
func (l *AnalysisList) SetSelection(sel reconcile.Selection) {
	l.selection = sel
	l.clampOffset()
}

// Len returns the number of rows.
func (l *AnalysisList) Len() int {
	return len(l.records)
}

// Index returns the row index of the selection, or -1.
func (l *AnalysisList) Index() int {
	if !l.selection.Valid {
		return -1
	}
	return model.FindByID(l.records, l.selection.ID)
}

// Neighbor returns the ID delta rows away from the selection, clamped to the
// list. With no selection the first row is returned. ok is false only for
// an empty list.
func (l *AnalysisList) Neighbor(delta int) (model.ID, bool) {
	if len(l.records) == 0 {
		return 0, false
	}
	i := l.Index()
	if i < 0 {
		return l.records[0].ID, true
	}
	i += delta
	if i < 0 {
		i = 0
	}
	if i >= len(l.records) {
		i = len(l.records) - 1
	}
	return l.records[i].ID, true
}

// visibleRows returns how many records fit.
func (l *AnalysisList) visibleRows() int {
	n := l.Height / rowHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (l *AnalysisList) clampOffset() {
	rows := l.visibleRows()
	if i := l.Index(); i >= 0 {
		if i < l.offset {
			l.offset = i
		}
		if i >= l.offset+rows {
			l.offset = i - rows + 1
		}
	}
	if last := len(l.records) - rows; l.offset > last {
		l.offset = last
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the visible rows.
func (l *AnalysisList) View() string {
	if len(l.records) == 0 {
		return l.theme.ListEmpty.Width(l.Width).Render(EmptyHint)
	}

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}

	end := l.offset + l.visibleRows()
	if end > len(l.records) {
		end = len(l.records)
	}
	rows := make([]string, 0, end-l.offset)
	for _, rec := range l.records[l.offset:end] {
		rows = append(rows, l.renderRow(rec, now))
	}
	return strings.Join(rows, "\n")
}

func (l *AnalysisList) renderRow(rec model.AnalysisRecord, now time.Time) string {
	t := l.theme
	inner := l.Width - 2
	if inner < 1 {
		inner = 1
	}

	title := util.TruncateWidth(util.SingleLine(rec.Title), inner)
	meta := StatusBadge(t, rec.Status) + t.ListMeta.Render(" · "+model.LanguageLabel(rec.Language)+" · "+RelativeTime(rec.CreatedAt.Time, now))

	style := t.ListItem
	if l.selection.Is(rec.ID) {
		style = t.ListItemSelected
	}
	return style.Width(l.Width).Render(title + "\n" + meta)
}

// RelativeTime formats t against now ("3 minutes ago"). Zero times render
// as "-".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
