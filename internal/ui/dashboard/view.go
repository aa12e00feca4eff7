// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/report"
	"github.com/jeranaias/lintara-tui/internal/ui/components"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// NoSelectionHint fills the detail pane when nothing is selected.
const NoSelectionHint = "Select an analysis to view its report."

// minListWidth keeps titles readable on medium terminals.
const minListWidth = 28

// =============================================================================
// LAYOUT
// =============================================================================

// paneSizes is the outer width of each visible pane. A zero width hides the
// pane.
type paneSizes struct {
	list, detail, code int
	body               int // outer height shared by all panes
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.layout()
	m.renderDetail()
}

func (m *Model) sizes() paneSizes {
	helpHeight := lipgloss.Height(m.helpView())
	body := m.height - 2 - helpHeight // header and status bar
	if body < 4 {
		body = 4
	}
	s := paneSizes{body: body}

	switch m.theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		if m.focus == paneDetail {
			s.detail = m.width
		} else {
			s.list = m.width
		}
	default:
		s.list = m.width * 35 / 100
		if s.list < minListWidth {
			s.list = minListWidth
		}
		s.detail = m.width - s.list
		if m.showCode && m.theme.GetLayoutMode() == styles.LayoutWide {
			s.code = s.detail / 2
			s.detail -= s.code
		}
	}
	return s
}

// inner returns the content size for a pane of the given outer size:
// rounded border plus one column of padding each side.
func inner(outer int) int {
	if outer <= 4 {
		return 1
	}
	return outer - 4
}

func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	s := m.sizes()
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.help.Width = m.width
	m.list.SetSize(inner(s.list), s.body-2)
	m.reportView.SetWidth(inner(s.detail))
	m.detail.Width = inner(s.detail)
	m.detail.Height = s.body - 2
	m.form.SetSize(m.width-2, s.body)
}

// =============================================================================
// DETAIL CONTENT
// =============================================================================

// detailContent builds the detail pane text and reports whether the
// selected record is still processing.
func (m *Model) detailContent() (string, bool) {
	sel := m.ctrl.Selection()
	rec, ok := m.selectedRecord()
	if !sel.Valid {
		return m.theme.ListEmpty.Render(NoSelectionHint), false
	}
	if !ok {
		return m.theme.ListEmpty.Render("Loading analysis " + sel.ID.String() + "..."), false
	}

	out := report.RenderRecord(rec)
	t := m.theme
	meta := components.StatusBadge(t, rec.Status) + t.ListMeta.Render(
		" · "+model.LanguageLabel(rec.Language)+
			" · submitted "+components.RelativeTime(rec.CreatedAt.Time, m.now()))

	parts := []string{
		t.PaneTitle.Render(rec.Title),
		meta,
		"",
		m.reportView.Render(out, m.spinner.Frame()),
	}

	// without a code pane the source goes under the report
	if m.showCode && m.sizes().code == 0 && rec.CodeContent != "" {
		code := components.NewCodeBlock(rec.Language, rec.CodeContent)
		code.SetMaxWidth(m.detail.Width)
		parts = append(parts, "", t.PaneTitle.Render("Submitted code"), code.Render(t))
	}
	return strings.Join(parts, "\n"), out.Kind == report.OutputProcessing
}

func (m *Model) codeContent(width int) string {
	rec, ok := m.selectedRecord()
	if !ok {
		return ""
	}
	code := components.NewCodeBlock(rec.Language, rec.CodeContent)
	code.SetMaxWidth(width)
	return m.theme.PaneTitle.Render("Submitted code") + "\n" + code.Render(m.theme)
}

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) helpView() string {
	if m.mode == modeSubmit {
		return m.help.View(m.form.keys)
	}
	return m.help.View(m.keys)
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	s := m.sizes()

	var body string
	switch m.mode {
	case modeSubmit:
		body = m.theme.PaneFocused.Width(m.width - 2).Height(s.body - 2).MaxHeight(s.body).Render(m.form.View())
	case modeConfirmDelete:
		body = lipgloss.Place(m.width, s.body, lipgloss.Center, lipgloss.Center, m.confirmView())
	default:
		body = m.browseView(s)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.statusBar.View(),
		m.helpView(),
	)
}

func (m *Model) browseView(s paneSizes) string {
	var panes []string
	if s.list > 0 {
		panes = append(panes, m.paneStyle(paneList, s.list, s.body).Render(m.list.View()))
	}
	if s.detail > 0 {
		panes = append(panes, m.paneStyle(paneDetail, s.detail, s.body).Render(m.detail.View()))
	}
	if s.code > 0 {
		style := m.theme.Pane.Width(s.code - 2).Height(s.body - 2).MaxHeight(s.body)
		panes = append(panes, style.Render(m.codeContent(inner(s.code))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m *Model) paneStyle(p pane, outerWidth, outerHeight int) lipgloss.Style {
	style := m.theme.Pane
	if m.focus == p {
		style = m.theme.PaneFocused
	}
	return style.Width(outerWidth - 2).Height(outerHeight - 2).MaxHeight(outerHeight)
}

func (m *Model) confirmView() string {
	t := m.theme
	title := "this analysis"
	if i := model.FindByID(m.ctrl.Records(), m.pendingDelete); i >= 0 {
		title = "\"" + m.ctrl.Records()[i].Title + "\""
	}
	body := t.DialogTitle.Render("Delete analysis?") + "\n\n" +
		"Delete " + title + "? This cannot be undone.\n\n" +
		t.ShortcutKey.Render("y") + t.ShortcutDesc.Render(" delete  ") +
		t.ShortcutKey.Render("n") + t.ShortcutDesc.Render(" cancel")
	return t.DialogBox.Render(body)
}
