// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import "strings"

// Annotate splits one line into Plain, Code and Call segments, left to right.
//
// Backtick spans are found first. A span needs at least one character between
// its delimiters; "``" is not a span and its second backtick may still open
// one. An opening backtick with no partner leaves the rest of the line plain.
// Text outside spans is then scanned for zero-argument calls. Empty plain
// segments are never emitted, so Annotate("") returns nil.
func Annotate(line string) []Segment {
	var segs []Segment

	pending := 0 // start of out-of-span text not yet emitted
	search := 0
	for {
		open := indexByteFrom(line, '`', search)
		if open < 0 {
			break
		}
		closing := indexByteFrom(line, '`', open+1)
		if closing < 0 {
			break
		}
		if closing == open+1 {
			search = closing
			continue
		}
		segs = appendCalls(segs, line[pending:open])
		segs = append(segs, Code(line[open+1:closing]))
		pending = closing + 1
		search = pending
	}

	return appendCalls(segs, line[pending:])
}

// appendCalls splits out-of-span text on \b\w+\(\) tokens. A token starts at
// a word boundary, so "xfoo()" yields one call "xfoo()" and never "foo()".
func appendCalls(segs []Segment, text string) []Segment {
	start := 0
	i := 0
	for i < len(text) {
		if !isWordByte(text[i]) || (i > 0 && isWordByte(text[i-1])) {
			i++
			continue
		}
		j := i
		for j < len(text) && isWordByte(text[j]) {
			j++
		}
		if !strings.HasPrefix(text[j:], "()") {
			i = j
			continue
		}
		if i > start {
			segs = append(segs, Plain(text[start:i]))
		}
		segs = append(segs, Call(text[i:j+2]))
		i = j + 2
		start = i
	}
	if start < len(text) {
		segs = append(segs, Plain(text[start:]))
	}
	return segs
}

// isWordByte matches the ASCII \w class. Bytes of multi-byte runes are never
// word bytes, matching how the pattern treats non-ASCII letters.
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func indexByteFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}
