// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report turns a free-text analysis report into typed display blocks.
//
// The reports come from an LLM and follow no grammar, so every function here
// is total: any string, including invalid UTF-8, produces a result and
// nothing panics or returns an error.
//
// # Pipeline
//
//	Render(status, result)   status state machine, placeholder or blocks
//	  Parse(report)          one Block per line, ordered rule table
//	    Annotate(line)       Plain / Code / Call inline segments
//
// # Line shapes
//
//   - Header:    ^\d+\.\s+[A-Za-z/\s]+:   e.g. "1. Bugs/Errors:"
//   - Bullet:    trimmed line starts with '*' or '-'
//   - Blank:     trimmed line is empty
//   - Paragraph: anything else
//
// Inline, backtick spans (`[^`]+`) win over call detection (\b\w+\(\)), so
// "`foo()`" is a code span and never a call. Only zero-argument calls are
// recognized; "foo(x)" stays plain.
//
// All functions are pure and safe for concurrent use.
package report
