// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/report"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports the report as a standalone HTML page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

type htmlView struct {
	Theme       string
	Record      model.AnalysisRecord
	StatusClass string
	Submitted   string
	Output      report.Output
	Code        string
	ExportedAt  string
}

var htmlTemplate = template.Must(template.New("analysis").Funcs(template.FuncMap{
	"isHeader":    func(b report.Block) bool { return b.Kind == report.BlockHeader },
	"isBullet":    func(b report.Block) bool { return b.Kind == report.BlockBullet },
	"isBlank":     func(b report.Block) bool { return b.Kind == report.BlockBlank },
	"isCode":      func(s report.Segment) bool { return s.Kind == report.SegmentCode },
	"isCall":      func(s report.Segment) bool { return s.Kind == report.SegmentCall },
	"placeholder": func(o report.Output) bool { return o.IsPlaceholder() },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="lintara-tui">
<title>{{.Record.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.55; }
body.dark-theme { background: #1e1e2e; color: #cdd6f4; }
body.light-theme { background: #ffffff; color: #1e1e2e; }
h2 { color: #89b4fa; margin: 1.2rem 0 0.4rem; font-size: 1.1rem; }
.meta { opacity: 0.75; font-size: 0.9rem; }
.status { font-weight: 600; }
.status-completed { color: #a6e3a1; }
.status-processing { color: #f9e2af; }
.status-failed { color: #f38ba8; }
.status-other { color: #9399b2; }
.placeholder { padding: 1rem; border-left: 4px solid #89b4fa; }
.placeholder.failed { border-color: #f38ba8; }
.blank { height: 0.6rem; }
code { font-family: "JetBrains Mono", Consolas, monospace; background: rgba(137, 180, 250, 0.15); padding: 0 0.25rem; border-radius: 3px; }
code.call { color: #cba6f7; background: transparent; }
pre { overflow-x: auto; padding: 1rem; background: rgba(0, 0, 0, 0.25); border-radius: 6px; }
footer { margin-top: 2rem; font-size: 0.8rem; opacity: 0.6; }
</style>
</head>
<body class="{{.Theme}}-theme">
<header>
<h1>{{.Record.Title}}</h1>
<p class="meta">{{.Record.Language}} &middot; <span class="status {{.StatusClass}}">{{.Record.Status}}</span> &middot; submitted {{.Submitted}}</p>
</header>
<main>
{{- if placeholder .Output}}
<div class="placeholder {{.Output.Kind}}"><strong>{{.Output.Title}}</strong><br>{{.Output.Detail}}</div>
{{- else}}
{{- range .Output.Blocks}}
{{- if isHeader .}}
<h2>{{.Text}}</h2>
{{- else if isBlank .}}
<div class="blank"></div>
{{- else if isBullet .}}
<ul><li>{{template "segments" .Segments}}</li></ul>
{{- else}}
<p>{{template "segments" .Segments}}</p>
{{- end}}
{{- end}}
{{- end}}
</main>
{{- if .Code}}
<section>
<h2>Submitted code</h2>
<pre><code>{{.Code}}</code></pre>
</section>
{{- end}}
<footer>Exported by lintara on {{.ExportedAt}}</footer>
</body>
</html>
{{define "segments"}}{{range .}}{{if isCode .}}<code>{{.Text}}</code>{{else if isCall .}}<code class="call">{{.Text}}</code>{{else}}{{.Text}}{{end}}{{end}}{{end}}
`))

// Export converts a document to HTML format.
func (e *HTMLExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	view := htmlView{
		Theme:       theme,
		Record:      doc.Record,
		StatusClass: statusClass(doc.Record.Status),
		Submitted:   formatTimestamp(doc.Record.CreatedAt.Time),
		Output:      doc.Output,
		ExportedAt:  formatTimestamp(doc.ExportedAt),
	}
	if e.options.IncludeCode {
		view.Code = doc.Record.CodeContent
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func statusClass(s model.Status) string {
	switch s {
	case model.StatusCompleted, model.StatusProcessing, model.StatusFailed:
		return "status-" + string(s)
	default:
		return "status-other"
	}
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}
