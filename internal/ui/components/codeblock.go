// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
	"github.com/jeranaias/lintara-tui/internal/util"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// tabWidth is how many spaces a tab expands to in the code pane.
const tabWidth = 4

// CodeBlock renders submitted source with line numbers. No highlighting is
// applied; the language only labels the badge.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Lines returns the code split into display lines with tabs expanded and
// trailing newlines removed.
func (c CodeBlock) Lines() []string {
	code := strings.TrimRight(strings.ReplaceAll(c.Code, "\r\n", "\n"), "\n")
	if code == "" {
		return nil
	}
	code = strings.ReplaceAll(code, "\t", strings.Repeat(" ", tabWidth))
	return strings.Split(code, "\n")
}

// Render renders the code block with the theme's code styles. Long lines are
// truncated to the block width.
func (c CodeBlock) Render(theme *styles.Theme) string {
	lines := c.Lines()

	// line number column is 4 wide plus 1 margin, block padding is 2
	textWidth := c.MaxWidth - 7
	if textWidth < 10 {
		textWidth = 10
	}

	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		num := theme.CodeLineNum.Render(strconv.Itoa(i + 1))
		rendered = append(rendered, num+util.TruncateWidth(line, textWidth))
	}

	var header string
	if c.Language != "" {
		header = theme.CodeLangBadge.Render(model.LanguageLabel(c.Language)) + "\n"
	}

	return theme.CodeBlock.Render(header + strings.Join(rendered, "\n"))
}
