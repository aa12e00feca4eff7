// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/lintara-tui/internal/model"
)

var exportTime = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func completedRecord() model.AnalysisRecord {
	return model.AnalysisRecord{
		ID:          42,
		Title:       "auth/login: review",
		CodeContent: "def login(user):\n    return check(user)\n",
		Language:    "python",
		Status:      model.StatusCompleted,
		Result:      model.StringPtr("1. Security:\n- `login()` skips hashing\n\nCall validate() first."),
		CreatedAt:   model.NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"md", "markdown", "HTML", "json", "yaml", "yml"} {
		e, err := ForFormat(f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, e.FileExtension())
		assert.NotEmpty(t, e.MimeType())
	}
	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	doc := NewDocument(completedRecord(), exportTime)
	out, err := NewMarkdownExporter(nil).Export(doc)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "# auth/login: review\n")
	assert.Contains(t, s, "### 1. Security:\n")
	assert.Contains(t, s, "- `login()` skips hashing\n")
	assert.Contains(t, s, "Call validate() first.\n")
	assert.Contains(t, s, "```python\ndef login(user):\n    return check(user)\n```")
	assert.Contains(t, s, "2025-02-03 04:05:06 UTC")
}

func TestMarkdownExporter_Placeholder(t *testing.T) {
	rec := completedRecord()
	rec.Status = model.StatusFailed
	rec.Result = nil
	out, err := NewMarkdownExporter(&Options{}).Export(NewDocument(rec, exportTime))
	require.NoError(t, err)
	assert.Contains(t, string(out), "> **Analysis failed**  \n> Please try again\n")
	assert.NotContains(t, string(out), "Submitted code")
}

func TestCodeFence(t *testing.T) {
	assert.Equal(t, "```", codeFence("plain"))
	assert.Equal(t, "````", codeFence("a ``` b"))
	assert.Equal(t, "`````", codeFence("````"))
}

func TestHTMLExporter_Escapes(t *testing.T) {
	rec := completedRecord()
	rec.Title = "<script>alert(1)</script>"
	rec.Result = model.StringPtr("- uses `<b>` tags\nrun() now")

	out, err := NewHTMLExporter(&Options{Theme: "light", IncludeCode: true}).Export(NewDocument(rec, exportTime))
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "<script>alert(1)</script>")
	assert.Contains(t, s, "&lt;script&gt;")
	assert.Contains(t, s, `<ul><li>uses <code>&lt;b&gt;</code> tags</li></ul>`)
	assert.Contains(t, s, `<p><code class="call">run()</code> now</p>`)
	assert.Contains(t, s, `class="light-theme"`)
	assert.Contains(t, s, "status-completed")
}

func TestHTMLExporter_Placeholder(t *testing.T) {
	rec := completedRecord()
	rec.Status = model.StatusProcessing
	out, err := NewHTMLExporter(nil).Export(NewDocument(rec, exportTime))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="placeholder processing"><strong>Processing your code...</strong>`)
	assert.Contains(t, string(out), `class="dark-theme"`)
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(&Options{}).Export(NewDocument(completedRecord(), exportTime))
	require.NoError(t, err)

	var got exportedDoc
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "report", got.Output.Kind)
	require.Len(t, got.Output.Blocks, 4)
	assert.Equal(t, "header", got.Output.Blocks[0].Kind)
	assert.Equal(t, []exportedSegment{{Kind: "code", Text: "login()"}, {Kind: "plain", Text: " skips hashing"}}, got.Output.Blocks[1].Segments)
	assert.Equal(t, "blank", got.Output.Blocks[2].Kind)
	assert.Empty(t, got.Code, "code omitted without IncludeCode")
	assert.Equal(t, "2025-02-03T04:05:06Z", got.ExportedAt)
}

func TestYAMLExporter(t *testing.T) {
	out, err := NewYAMLExporter(nil).Export(NewDocument(completedRecord(), exportTime))
	require.NoError(t, err)

	var got exportedDoc
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, "auth/login: review", got.Title)
	assert.Equal(t, "call", got.Output.Blocks[3].Segments[1].Kind)
	assert.True(t, strings.HasPrefix(got.Code, "def login"))
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	doc := NewDocument(completedRecord(), exportTime)

	path, err := ExportToFile(doc, NewMarkdownExporter(nil), &Options{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis_42_auth-login-_review.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### 1. Security:")

	_, err = ExportToFile(nil, NewMarkdownExporter(nil), nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "untitled"},
		{"a b", "a_b"},
		{"x/y\\z:*?", "x-y-z---"},
		{"tab\there\x01", "tab_here-"},
		{strings.Repeat("é", 60), strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
