// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a rendered analysis to a file.
//
// # Key Types
//
//   - Document: A record together with its rendered report
//   - Exporter: Format-specific encoder (Markdown, HTML, JSON, YAML)
//   - Options: Output directory and theme
//
// # Usage
//
//	doc := export.NewDocument(record, time.Now())
//	exporter, err := export.ForFormat("md", nil)
//	path, err := export.ExportToFile(doc, exporter, nil)
package export
