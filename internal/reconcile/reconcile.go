// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import "github.com/jeranaias/lintara-tui/internal/model"

// Selection is the selected record key. The zero value means nothing is
// selected.
type Selection struct {
	ID    model.ID
	Valid bool
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

// Select returns a selection of id.
func Select(id model.ID) Selection {
	return Selection{ID: id, Valid: true}
}

// Is reports whether the selection holds id.
func (s Selection) Is(id model.ID) bool {
	return s.Valid && s.ID == id
}

// String returns the id, or "none".
func (s Selection) String() string {
	if !s.Valid {
		return "none"
	}
	return s.ID.String()
}

// Reconcile carries prev across a refreshed list. The record is looked up by
// id, never by position. When found, the fresh copy is returned so status and
// result changes are visible. When absent, the selection clears.
func Reconcile(list []model.AnalysisRecord, prev Selection) (Selection, *model.AnalysisRecord) {
	if !prev.Valid {
		return NoSelection, nil
	}
	i := model.FindByID(list, prev.ID)
	if i < 0 {
		return NoSelection, nil
	}
	rec := list[i]
	return prev, &rec
}

// ShouldPoll reports whether any record is pending or processing.
func ShouldPoll(list []model.AnalysisRecord) bool {
	return model.HasUnsettled(list)
}
