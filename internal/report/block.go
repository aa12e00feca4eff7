// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

// BlockKind tags a display block.
type BlockKind int

const (
	BlockHeader    BlockKind = iota // numbered section title, Text set
	BlockBullet                     // list item, Segments set, marker stripped
	BlockBlank                      // vertical spacing, no content
	BlockParagraph                  // any other line, Segments set
)

// String returns a short name for the kind.
func (k BlockKind) String() string {
	switch k {
	case BlockHeader:
		return "header"
	case BlockBullet:
		return "bullet"
	case BlockBlank:
		return "blank"
	case BlockParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Block is one classified report line. Blocks are values; nothing in the
// package holds on to or mutates them after Parse returns.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Header, Bullet, Blank and Paragraph build blocks of the respective kind.
func Header(text string) Block { return Block{Kind: BlockHeader, Text: text} }
func Bullet(segs []Segment) Block { return Block{Kind: BlockBullet, Segments: segs} }
func Blank() Block { return Block{Kind: BlockBlank} }
func Paragraph(segs []Segment) Block { return Block{Kind: BlockParagraph, Segments: segs} }

// Content returns the block's text with styling dropped. Code spans keep
// their backticks so the result matches the (marker-stripped) input line.
func (b Block) Content() string {
	switch b.Kind {
	case BlockHeader:
		return b.Text
	case BlockBullet, BlockParagraph:
		return JoinSource(b.Segments)
	default:
		return ""
	}
}
