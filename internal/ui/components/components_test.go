// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/reconcile"
	"github.com/jeranaias/lintara-tui/internal/report"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// testTheme renders without color so assertions see plain text.
func testTheme() *styles.Theme {
	return styles.NewThemeFor(styles.ModeDark, io.Discard)
}

// =============================================================================
// REPORT VIEW
// =============================================================================

func TestReportView_Blocks(t *testing.T) {
	v := NewReportView(testTheme())
	v.SetWidth(60)

	out := report.Render(model.StatusCompleted, model.StringPtr("1. Security:\n- `login()` skips hashing\n\nCall validate() first."))
	got := v.Render(out, "")
	lines := strings.Split(got, "\n")

	assert.Contains(t, got, "1. Security:")
	assert.Contains(t, got, "• login() skips hashing")
	assert.Contains(t, got, "Call validate() first.")
	assert.NotContains(t, got, "`", "code delimiters are not drawn")
	assert.GreaterOrEqual(t, len(lines), 4)
}

func TestReportView_BlankBlock(t *testing.T) {
	v := NewReportView(testTheme())
	assert.Equal(t, "", v.RenderBlock(report.Blank()))
}

func TestReportView_Segments(t *testing.T) {
	v := NewReportView(testTheme())
	got := v.RenderSegments(report.Annotate("use `x := 1` then run()"))
	assert.Equal(t, "use x := 1 then run()", got)
}

func TestReportView_Placeholders(t *testing.T) {
	v := NewReportView(testTheme())

	processing := v.Render(report.Render(model.StatusProcessing, nil), "|")
	assert.Contains(t, processing, "| "+report.ProcessingTitle)
	assert.Contains(t, processing, report.ProcessingDetail)

	pending := v.Render(report.Render(model.StatusPending, nil), "|")
	assert.Contains(t, pending, report.PendingTitle)
	assert.NotContains(t, pending, "|"+" "+report.PendingTitle, "spinner only on processing")

	failed := v.Render(report.Render(model.StatusFailed, model.StringPtr("model timed out")), "")
	assert.Contains(t, failed, report.FailedTitle)
	assert.Contains(t, failed, "model timed out")
}

func TestReportView_NoWrap(t *testing.T) {
	v := NewReportView(testTheme())
	v.WordWrap = false
	v.SetWidth(10)
	long := strings.Repeat("word ", 10)
	got := v.RenderBlock(report.Paragraph(report.Annotate(long)))
	assert.Equal(t, 1, strings.Count(got, "\n")+1)
}

// =============================================================================
// BADGE
// =============================================================================

func TestStatusLabel(t *testing.T) {
	tests := map[model.Status]string{
		model.StatusProcessing:  "Processing",
		model.StatusCompleted:   "Completed",
		"":                      "Unknown",
		model.Status("queued"):  "Queued",
		model.Status("on hold"): "On Hold",
	}
	for in, want := range tests {
		assert.Equal(t, want, StatusLabel(in), string(in))
	}
}

func TestStatusBadge(t *testing.T) {
	theme := testTheme()
	assert.Equal(t, "[OK] Completed", StatusBadge(theme, model.StatusCompleted))
	assert.Equal(t, "[X] Failed", StatusBadge(theme, model.StatusFailed))
}

// =============================================================================
// ANALYSIS LIST
// =============================================================================

func listRecords(n int, now time.Time) []model.AnalysisRecord {
	out := make([]model.AnalysisRecord, n)
	for i := range out {
		out[i] = model.AnalysisRecord{
			ID:        model.ID(i + 1),
			Title:     fmt.Sprintf("analysis %d", i+1),
			Language:  "go",
			Status:    model.StatusCompleted,
			CreatedAt: model.NewTimestamp(now.Add(-time.Duration(i+1) * time.Hour)),
		}
	}
	return out
}

func TestAnalysisList_Empty(t *testing.T) {
	l := NewAnalysisList(testTheme())
	l.SetSize(80, 10)
	assert.Contains(t, l.View(), EmptyHint)

	_, ok := l.Neighbor(1)
	assert.False(t, ok)
	assert.Equal(t, -1, l.Index())
}

func TestAnalysisList_Rows(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewAnalysisList(testTheme())
	l.Now = func() time.Time { return now }
	l.SetSize(60, 10)
	l.SetRecords(listRecords(2, now))

	got := l.View()
	assert.Contains(t, got, "analysis 1")
	assert.Contains(t, got, "[OK] Completed · Go · 1 hour ago")
	assert.Contains(t, got, "analysis 2")
}

func TestAnalysisList_Neighbor(t *testing.T) {
	now := time.Now()
	l := NewAnalysisList(testTheme())
	l.SetRecords(listRecords(3, now))

	id, ok := l.Neighbor(1)
	require.True(t, ok)
	assert.Equal(t, model.ID(1), id, "no selection starts at the top")

	l.SetSelection(reconcile.Select(2))
	id, _ = l.Neighbor(1)
	assert.Equal(t, model.ID(3), id)
	id, _ = l.Neighbor(-5)
	assert.Equal(t, model.ID(1), id)

	l.SetSelection(reconcile.Select(3))
	id, _ = l.Neighbor(1)
	assert.Equal(t, model.ID(3), id)
}

func TestAnalysisList_ScrollsToSelection(t *testing.T) {
	now := time.Now()
	l := NewAnalysisList(testTheme())
	l.SetSize(40, 4) // two rows
	l.SetRecords(listRecords(6, now))

	l.SetSelection(reconcile.Select(5))
	got := l.View()
	assert.Contains(t, got, "analysis 5")
	assert.NotContains(t, got, "analysis 1")
	assert.Equal(t, 4, l.Index())

	l.SetSelection(reconcile.Select(1))
	assert.Contains(t, l.View(), "analysis 1")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "-", RelativeTime(time.Time{}, now))
	assert.Equal(t, "3 minutes ago", RelativeTime(now.Add(-3*time.Minute), now))
}

// =============================================================================
// CODE BLOCK
// =============================================================================

func TestCodeBlock_Lines(t *testing.T) {
	c := NewCodeBlock("python", "def f():\r\n\treturn 1\n\n")
	assert.Equal(t, []string{"def f():", "    return 1"}, c.Lines())
	assert.Nil(t, NewCodeBlock("", "\n\n").Lines())
}

func TestCodeBlock_Render(t *testing.T) {
	c := NewCodeBlock("cpp", "int main() {}\nreturn 0;")
	c.SetMaxWidth(40)
	got := c.Render(testTheme())
	assert.Contains(t, got, "C++")
	assert.Contains(t, got, "   1 int main() {}")
	assert.Contains(t, got, "   2 return 0;")
}

// =============================================================================
// HEADER AND STATUS BAR
// =============================================================================

func TestHeader(t *testing.T) {
	theme := testTheme()
	theme.SetSize(120, 40)
	h := NewHeader(theme)
	h.SetWidth(120)
	h.Username = "ada"
	h.BaseURL = "http://localhost:8000"
	h.Offline = true

	got := h.View()
	assert.Contains(t, got, "< lintara >")
	assert.Contains(t, got, "ada @ http://localhost:8000")
	assert.Contains(t, got, "[OFFLINE]")
}

func TestStatusBar(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStatusBar(testTheme())
	s.SetWidth(100)
	s.Now = func() time.Time { return now }

	s.SetError(errors.New("boom"))
	msg, isErr := s.Message()
	assert.Equal(t, "boom", msg)
	assert.True(t, isErr)
	assert.Contains(t, s.View(), "[X] boom")

	s.SetInfo("Analysis submitted")
	s.Polling = true
	s.Interval = 5 * time.Second
	s.LastRefresh = now.Add(-time.Minute)
	got := s.View()
	assert.Contains(t, got, "Analysis submitted")
	assert.Contains(t, got, "polling every 5s")
	assert.Contains(t, got, "updated 1 minute ago")

	s.SetError(nil)
	msg, _ = s.Message()
	assert.Empty(t, msg)
}

// =============================================================================
// SPINNER
// =============================================================================

func TestSpinner(t *testing.T) {
	s := NewSpinner()
	assert.False(t, s.IsActive())
	assert.Equal(t, "", s.Frame())
	assert.Zero(t, s.Elapsed())

	require.NotNil(t, s.Start())
	assert.Nil(t, s.Start(), "already running")
	assert.True(t, s.IsActive())
	assert.Equal(t, "|", s.Frame())

	s.Stop()
	next, cmd := s.Update(nil)
	assert.Nil(t, cmd)
	assert.Equal(t, "", next.Frame())
}
