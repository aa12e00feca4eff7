// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/lintara-tui/internal/report"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes the report as Markdown. Header lines become level
// two headings; every other block keeps its original text.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a document to Markdown.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	rec := doc.Record

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", rec.Title)
	fmt.Fprintf(&sb, "- **Language:** %s\n", rec.Language)
	fmt.Fprintf(&sb, "- **Status:** %s\n", rec.Status)
	fmt.Fprintf(&sb, "- **Submitted:** %s\n", formatTimestamp(rec.CreatedAt.Time))
	if rec.CompletedAt != nil {
		fmt.Fprintf(&sb, "- **Completed:** %s\n", formatTimestamp(rec.CompletedAt.Time))
	}
	sb.WriteString("\n## Analysis\n\n")

	out := doc.Output
	if out.IsPlaceholder() {
		fmt.Fprintf(&sb, "> **%s**  \n> %s\n", out.Title, out.Detail)
	} else {
		for _, b := range out.Blocks {
			switch b.Kind {
			case report.BlockHeader:
				fmt.Fprintf(&sb, "### %s\n", b.Text)
			case report.BlockBullet:
				fmt.Fprintf(&sb, "- %s\n", b.Content())
			case report.BlockBlank:
				sb.WriteString("\n")
			default:
				sb.WriteString(b.Content())
				sb.WriteString("\n")
			}
		}
	}

	if e.options.IncludeCode && rec.CodeContent != "" {
		fence := codeFence(rec.CodeContent)
		fmt.Fprintf(&sb, "\n## Submitted code\n\n%s%s\n%s\n%s\n", fence, rec.Language, strings.TrimRight(rec.CodeContent, "\n"), fence)
	}

	fmt.Fprintf(&sb, "\n---\n*Exported by lintara on %s*\n", formatTimestamp(doc.ExportedAt))
	return []byte(sb.String()), nil
}

// codeFence returns a backtick fence longer than any run inside code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}
