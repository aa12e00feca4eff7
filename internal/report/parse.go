// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// CLASSIFICATION RULES
// =============================================================================

// Rule classifies a line. Match sees the raw line and its trimmed form;
// Build is only called when Match returned true.
type Rule struct {
	Name  string
	Match func(line, trimmed string) bool
	Build func(line, trimmed string) Block
}

// rules are evaluated in order and the first match wins. The header rule
// must precede the bullet rule. The paragraph rule matches everything, so
// classification is total.
var rules = []Rule{
	{
		Name:  "header",
		Match: func(line, _ string) bool { return isHeaderLine(line) },
		Build: func(line, _ string) Block { return Header(line) },
	},
	{
		Name: "bullet",
		Match: func(_, trimmed string) bool {
			return strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "-")
		},
		Build: func(_, trimmed string) Block {
			content := strings.TrimLeftFunc(trimmed[1:], isSpace)
			return Bullet(Annotate(content))
		},
	},
	{
		Name:  "blank",
		Match: func(_, trimmed string) bool { return trimmed == "" },
		Build: func(_, _ string) Block { return Blank() },
	},
	{
		Name:  "paragraph",
		Match: func(_, _ string) bool { return true },
		Build: func(line, _ string) Block { return Paragraph(Annotate(line)) },
	},
}

// Rules returns a copy of the classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// =============================================================================
// PARSING
// =============================================================================

// Parse splits a report into one Block per line. Empty lines are kept, so the
// block count always equals the number of "\n"-separated lines. Parse("")
// returns nil.
//
// Lines are split on "\n" only, but a trailing "\r" is dropped from each
// line before classification. CRLF reports therefore parse exactly like LF
// reports, and paragraph text never ends in a carriage return. A "\r"
// anywhere else in a line is kept.
func Parse(report string) []Block {
	if report == "" {
		return nil
	}
	lines := strings.Split(report, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, Classify(strings.TrimSuffix(line, "\r")))
	}
	return blocks
}

// Classify applies the rule table to a single line.
func Classify(line string) Block {
	trimmed := strings.TrimFunc(line, isSpace)
	for _, r := range rules {
		if r.Match(line, trimmed) {
			return r.Build(line, trimmed)
		}
	}
	// unreachable: the paragraph rule matches everything
	return Paragraph(Annotate(line))
}

// isHeaderLine reports whether line starts with ^\d+\.\s+[A-Za-z/\s]+:
// The run after the period must start with whitespace, hold at least two
// runes from the class, and be followed directly by a colon.
func isHeaderLine(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return false
	}
	i++

	run := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if run == 0 {
			if !isSpace(r) {
				return false
			}
		} else if !isHeaderRune(r) {
			break
		}
		run++
		i += size
	}
	return run >= 2 && i < len(line) && line[i] == ':'
}

func isHeaderRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '/' || isSpace(r)
}

// isSpace is the ECMAScript \s class: Unicode White_Space minus U+0085,
// plus the byte order mark.
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r)
}
