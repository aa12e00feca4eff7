// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the lintara dashboard.

Components hold a *styles.Theme and render to strings; the dashboard model
owns all state transitions and feeds components the current values.

# Display Components

ReportView (report_view.go) - Draws a report.Output: headers, bullets,
paragraphs with inline code and call highlights, or a status placeholder.

AnalysisList (list.go) - Record rows with status badge, language and
relative creation time (go-humanize). Shows EmptyHint for an empty account.

CodeBlock (codeblock.go) - Submitted source with line numbers.

Header (header.go) - Brand, user, service URL and the OFFLINE badge.

StatusBar (statusbar.go) - Last message or error plus polling state.

# Feedback

Spinner (spinner.go) - ASCII bubbles spinner for the processing placeholder.

StatusBadge / StatusLabel (badge.go) - Colored, title-cased status
(golang.org/x/text/cases).

# Usage

	view := components.NewReportView(theme)
	view.SetWidth(72)
	out := view.Render(report.RenderRecord(rec), spin.Frame())
*/
package components
