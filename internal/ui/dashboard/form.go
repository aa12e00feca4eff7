// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// =============================================================================
// SUBMIT FORM
// =============================================================================

type formField int

const (
	fieldTitle formField = iota
	fieldLanguage
	fieldCode
	fieldCount
)

// formResult tells the dashboard what the last key did to the form.
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

// SubmitForm collects a title, a language from model.Languages and the code.
type SubmitForm struct {
	title   textinput.Model
	code    textarea.Model
	langIdx int
	focus   formField
	err     string

	keys  FormKeyMap
	theme *styles.Theme
	width int
}

// NewSubmitForm creates a form with the default language selected.
func NewSubmitForm(theme *styles.Theme) *SubmitForm {
	title := textinput.New()
	title.Placeholder = "Short description of the code"
	title.CharLimit = api.MaxTitleLen
	title.Prompt = ""

	code := textarea.New()
	code.Placeholder = "Paste the code to analyze"
	code.CharLimit = api.MaxCodeLen
	code.ShowLineNumbers = true

	f := &SubmitForm{title: title, code: code, keys: DefaultFormKeyMap(), theme: theme}
	f.Reset()
	return f
}

// Reset clears every field and focuses the title.
func (f *SubmitForm) Reset() tea.Cmd {
	f.title.Reset()
	f.code.Reset()
	f.langIdx = defaultLanguageIndex()
	f.err = ""
	return f.setFocus(fieldTitle)
}

func defaultLanguageIndex() int {
	for i, l := range model.Languages {
		if l.Value == model.DefaultLanguage {
			return i
		}
	}
	return 0
}

// SetTheme swaps the theme.
func (f *SubmitForm) SetTheme(theme *styles.Theme) {
	f.theme = theme
}

// SetSize fits the inputs into width x height.
func (f *SubmitForm) SetSize(width, height int) {
	f.width = width
	f.title.Width = width - 4
	f.code.SetWidth(width - 2)
	h := height - 9
	if h < 3 {
		h = 3
	}
	f.code.SetHeight(h)
}

// SetError shows err under the form. nil clears it.
func (f *SubmitForm) SetError(err error) {
	if err == nil {
		f.err = ""
		return
	}
	f.err = err.Error()
}

// Language returns the selected language.
func (f *SubmitForm) Language() model.Language {
	return model.Languages[f.langIdx]
}

// Input returns the form contents as a create request.
func (f *SubmitForm) Input() api.AnalysisInput {
	return api.AnalysisInput{
		Title:       strings.TrimSpace(f.title.Value()),
		CodeContent: f.code.Value(),
		Language:    f.Language().Value,
	}
}

func (f *SubmitForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.code.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldCode:
		return f.code.Focus()
	}
	return nil
}

// Update handles one message. Submission validates first; an invalid form
// stays open with the error shown.
func (f *SubmitForm) Update(msg tea.Msg) (formResult, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.keys.Cancel):
			return formCancelled, nil
		case key.Matches(msg, f.keys.Submit):
			if err := f.Input().Validate(); err != nil {
				f.SetError(err)
				return formEditing, nil
			}
			f.err = ""
			return formSubmitted, nil
		case key.Matches(msg, f.keys.Next):
			return formEditing, f.setFocus((f.focus + 1) % fieldCount)
		case key.Matches(msg, f.keys.Prev):
			return formEditing, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		}

		if f.focus == fieldLanguage {
			switch {
			case key.Matches(msg, f.keys.Left):
				f.langIdx = (f.langIdx + len(model.Languages) - 1) % len(model.Languages)
			case key.Matches(msg, f.keys.Right):
				f.langIdx = (f.langIdx + 1) % len(model.Languages)
			}
			return formEditing, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldCode:
		f.code, cmd = f.code.Update(msg)
	}
	return formEditing, cmd
}

// View renders the form.
func (f *SubmitForm) View() string {
	t := f.theme
	label := func(field formField, text string) string {
		if f.focus == field {
			return t.FormLabelFocused.Render("> " + text)
		}
		return t.FormLabel.Render("  " + text)
	}

	lang := f.Language().Label
	if f.focus == fieldLanguage {
		lang = "< " + lang + " >"
	}

	rows := []string{
		t.PaneTitle.Render("New analysis"),
		"",
		label(fieldTitle, "Title"),
		"  " + f.title.View(),
		label(fieldLanguage, "Language"),
		"  " + lang,
		label(fieldCode, "Code"),
		f.code.View(),
	}
	if f.err != "" {
		rows = append(rows, t.ErrorText.Render(styles.StatusIndicators.Error+" "+f.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
