// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Language is a submission language offered by the submit form.
type Language struct {
	Value string // wire value sent to the service
	Label string // display name
}

// Languages lists the choices the service's reviewers are prompted for.
// "other" is always last.
var Languages = []Language{
	{"python", "Python"},
	{"javascript", "JavaScript"},
	{"typescript", "TypeScript"},
	{"java", "Java"},
	{"cpp", "C++"},
	{"go", "Go"},
	{"rust", "Rust"},
	{"csharp", "C#"},
	{"ruby", "Ruby"},
	{"php", "PHP"},
	{"html", "HTML"},
	{"css", "CSS"},
	{"swift", "Swift"},
	{"kotlin", "Kotlin"},
	{"other", "other"},
}

// DefaultLanguage is preselected in the submit form.
const DefaultLanguage = "python"

// LookupLanguage finds a language by wire value or label, case-insensitively.
func LookupLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if strings.EqualFold(l.Value, s) || strings.EqualFold(l.Label, s) {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageLabel returns the display label for a wire value, falling back to
// the value itself for languages the form does not offer.
func LanguageLabel(value string) string {
	if l, ok := LookupLanguage(value); ok {
		return l.Label
	}
	return value
}
