// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import "github.com/jeranaias/lintara-tui/internal/model"

// OutputKind tells the view which presentation to use.
type OutputKind int

const (
	OutputReport     OutputKind = iota // Blocks hold the parsed report
	OutputProcessing                   // analysis running, spinner placeholder
	OutputPending                      // queued, waiting placeholder
	OutputFailed                       // error placeholder, Detail holds the reason
)

// String returns a short name for the kind.
func (k OutputKind) String() string {
	switch k {
	case OutputReport:
		return "report"
	case OutputProcessing:
		return "processing"
	case OutputPending:
		return "pending"
	case OutputFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Placeholder copy shown instead of a report.
const (
	ProcessingTitle  = "Processing your code..."
	ProcessingDetail = "Please be patient, this may take a few minutes"
	PendingTitle     = "Queued for analysis"
	PendingDetail    = "Your code will be processed shortly"
	FailedTitle      = "Analysis failed"
	FailedFallback   = "Please try again"
)

// Output is the presentation-ready form of a record's analysis.
type Output struct {
	Kind   OutputKind `json:"kind"`
	Title  string     `json:"title,omitempty"`
	Detail string     `json:"detail,omitempty"`
	Blocks []Block    `json:"blocks,omitempty"`
}

// IsPlaceholder reports whether the output stands in for a missing report.
func (o Output) IsPlaceholder() bool {
	return o.Kind != OutputReport
}

// Render maps a status and optional result text to an Output.
//
// processing and pending ignore result. failed shows result verbatim, or
// FailedFallback when it is nil or empty. Every other status, including
// values the service is not documented to send, renders result as a report.
func Render(status model.Status, result *string) Output {
	switch status {
	case model.StatusProcessing:
		return Output{Kind: OutputProcessing, Title: ProcessingTitle, Detail: ProcessingDetail}
	case model.StatusPending:
		return Output{Kind: OutputPending, Title: PendingTitle, Detail: PendingDetail}
	case model.StatusFailed:
		detail := FailedFallback
		if result != nil && *result != "" {
			detail = *result
		}
		return Output{Kind: OutputFailed, Title: FailedTitle, Detail: detail}
	default:
		text := ""
		if result != nil {
			text = *result
		}
		return Output{Kind: OutputReport, Blocks: Parse(text)}
	}
}

// RenderRecord renders a record's status and result.
func RenderRecord(rec model.AnalysisRecord) Output {
	return Render(rec.Status, rec.Result)
}
