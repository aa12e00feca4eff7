// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lintara-tui/internal/model"
)

func rec(id model.ID, status model.Status) model.AnalysisRecord {
	return model.AnalysisRecord{ID: id, Title: "t" + id.String(), Status: status}
}

func TestReconcile(t *testing.T) {
	list := []model.AnalysisRecord{
		rec(3, model.StatusCompleted),
		rec(1, model.StatusProcessing),
	}

	t.Run("no selection stays empty", func(t *testing.T) {
		sel, got := Reconcile(list, NoSelection)
		assert.Equal(t, NoSelection, sel)
		assert.Nil(t, got)
	})

	t.Run("found by id not position", func(t *testing.T) {
		sel, got := Reconcile(list, Select(1))
		assert.Equal(t, Select(1), sel)
		require.NotNil(t, got)
		assert.Equal(t, model.ID(1), got.ID)
		assert.Equal(t, model.StatusProcessing, got.Status)
	})

	t.Run("absent clears", func(t *testing.T) {
		sel, got := Reconcile(list, Select(9))
		assert.False(t, sel.Valid)
		assert.Nil(t, got)
	})

	t.Run("empty list clears", func(t *testing.T) {
		sel, got := Reconcile(nil, Select(1))
		assert.Equal(t, NoSelection, sel)
		assert.Nil(t, got)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		_, got := Reconcile(list, Select(3))
		require.NotNil(t, got)
		got.Title = "changed"
		assert.Equal(t, "t3", list[0].Title)
	})
}

func TestShouldPoll(t *testing.T) {
	tests := []struct {
		name string
		list []model.AnalysisRecord
		want bool
	}{
		{"empty", nil, false},
		{"all completed", []model.AnalysisRecord{rec(1, model.StatusCompleted), rec(2, model.StatusFailed)}, false},
		{"one pending", []model.AnalysisRecord{rec(1, model.StatusCompleted), rec(2, model.StatusPending)}, true},
		{"one processing", []model.AnalysisRecord{rec(1, model.StatusProcessing)}, true},
		{"unknown status settles", []model.AnalysisRecord{rec(1, "archived")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldPoll(tt.list))
		})
	}
}

func TestSelection_String(t *testing.T) {
	assert.Equal(t, "none", NoSelection.String())
	assert.Equal(t, "42", Select(42).String())
	assert.True(t, Select(42).Is(42))
	assert.False(t, NoSelection.Is(0))
}
