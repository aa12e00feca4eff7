// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import "strings"

// SegmentKind tags an inline segment.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota // ordinary text
	SegmentCode                     // backtick-delimited span, delimiters stripped
	SegmentCall                     // identifier followed by "()"
)

// String returns a short name for the kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentPlain:
		return "plain"
	case SegmentCode:
		return "code"
	case SegmentCall:
		return "call"
	default:
		return "unknown"
	}
}

// Segment is one typed run of text inside a block.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
}

// Plain, Code and Call build segments of the respective kind.
func Plain(text string) Segment { return Segment{Kind: SegmentPlain, Text: text} }
func Code(text string) Segment { return Segment{Kind: SegmentCode, Text: text} }
func Call(text string) Segment { return Segment{Kind: SegmentCall, Text: text} }

// Source returns the segment as it appeared in the input. Code spans get
// their backticks back.
func (s Segment) Source() string {
	if s.Kind == SegmentCode {
		return "`" + s.Text + "`"
	}
	return s.Text
}

// JoinSource concatenates segments back into the annotated input text.
func JoinSource(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Source())
	}
	return b.String()
}
