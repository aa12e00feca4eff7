// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/lintara-tui/internal/report"
)

// =============================================================================
// STRUCTURED FORM
// =============================================================================

// exportedDoc is the shape shared by the JSON and YAML exporters. Kinds are
// spelled out so the files are readable without this package.
type exportedDoc struct {
	ID          int64          `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Language    string         `json:"language" yaml:"language"`
	Status      string         `json:"status" yaml:"status"`
	CreatedAt   string         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	CompletedAt string         `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Output      exportedOutput `json:"output" yaml:"output"`
	Code        string         `json:"code,omitempty" yaml:"code,omitempty"`
	ExportedAt  string         `json:"exported_at" yaml:"exported_at"`
}

type exportedOutput struct {
	Kind   string          `json:"kind" yaml:"kind"`
	Title  string          `json:"title,omitempty" yaml:"title,omitempty"`
	Detail string          `json:"detail,omitempty" yaml:"detail,omitempty"`
	Blocks []exportedBlock `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

type exportedBlock struct {
	Kind     string            `json:"kind" yaml:"kind"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Segments []exportedSegment `json:"segments,omitempty" yaml:"segments,omitempty"`
}

type exportedSegment struct {
	Kind string `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

func toExported(doc *Document, includeCode bool) exportedDoc {
	rec := doc.Record
	out := exportedDoc{
		ID:         int64(rec.ID),
		Title:      rec.Title,
		Language:   rec.Language,
		Status:     string(rec.Status),
		ExportedAt: doc.ExportedAt.UTC().Format(time.RFC3339),
		Output: exportedOutput{
			Kind:   doc.Output.Kind.String(),
			Title:  doc.Output.Title,
			Detail: doc.Output.Detail,
		},
	}
	if !rec.CreatedAt.IsZero() {
		out.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if rec.CompletedAt != nil && !rec.CompletedAt.IsZero() {
		out.CompletedAt = rec.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	if includeCode {
		out.Code = rec.CodeContent
	}
	for _, b := range doc.Output.Blocks {
		out.Output.Blocks = append(out.Output.Blocks, toExportedBlock(b))
	}
	return out
}

func toExportedBlock(b report.Block) exportedBlock {
	eb := exportedBlock{Kind: b.Kind.String(), Text: b.Text}
	for _, s := range b.Segments {
		eb.Segments = append(eb.Segments, exportedSegment{Kind: s.Kind.String(), Text: s.Text})
	}
	return eb
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports the structured document as indented JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a document to JSON format.
func (e *JSONExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	data, err := json.MarshalIndent(toExported(doc, e.options.IncludeCode), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports the structured document as YAML.
type YAMLExporter struct {
	options *Options
}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter(opts *Options) *YAMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &YAMLExporter{options: opts}
}

// Export converts a document to YAML format.
func (e *YAMLExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	return yaml.Marshal(toExported(doc, e.options.IncludeCode))
}

// FileExtension returns the file extension for YAML.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the MIME type for YAML.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
