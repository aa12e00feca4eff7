// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/export"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/storage"
)

// Service is the part of the REST client the dashboard uses.
type Service interface {
	List(ctx context.Context, opts api.ListOptions) ([]model.AnalysisRecord, error)
	Create(ctx context.Context, in api.AnalysisInput) (*model.AnalysisRecord, error)
	Delete(ctx context.Context, id model.ID) error
	Reanalyze(ctx context.Context, id model.ID) (*model.AnalysisRecord, error)
}

// Cache is the part of the offline cache the dashboard uses.
type Cache interface {
	List(ctx context.Context, scope storage.Scope) ([]model.AnalysisRecord, error)
	ReplaceAll(ctx context.Context, scope storage.Scope, list []model.AnalysisRecord) error
	LastSync(ctx context.Context, scope storage.Scope) (time.Time, bool, error)
}

var (
	_ Service = (*api.Client)(nil)
	_ Cache   = (*storage.Cache)(nil)
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// fetchListCmd fetches the list for the fetch numbered seq.
func fetchListCmd(ctx context.Context, svc Service, seq uint64, opts api.ListOptions) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.List(ctx, opts)
		return listFetchedMsg{Seq: seq, Records: list, Err: err}
	}
}

func submitCmd(ctx context.Context, svc Service, in api.AnalysisInput) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.Create(ctx, in)
		return submitDoneMsg{Record: rec, Err: err}
	}
}

func deleteCmd(ctx context.Context, svc Service, id model.ID) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{ID: id, Err: svc.Delete(ctx, id)}
	}
}

func reanalyzeCmd(ctx context.Context, svc Service, id model.ID) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.Reanalyze(ctx, id)
		return reanalyzeDoneMsg{ID: id, Record: rec, Err: err}
	}
}

func loadCacheCmd(ctx context.Context, cache Cache, scope storage.Scope) tea.Cmd {
	return func() tea.Msg {
		list, err := cache.List(ctx, scope)
		if err != nil {
			return cacheLoadedMsg{Err: err}
		}
		synced, _, err := cache.LastSync(ctx, scope)
		return cacheLoadedMsg{Records: list, SyncedAt: synced, Err: err}
	}
}

func writeCacheCmd(ctx context.Context, cache Cache, scope storage.Scope, list []model.AnalysisRecord) tea.Cmd {
	return func() tea.Msg {
		if err := cache.ReplaceAll(ctx, scope, list); err != nil {
			return cacheWrittenMsg{Err: err}
		}
		return nil
	}
}

func exportCmd(rec model.AnalysisRecord, format string, opts *export.Options, now time.Time) tea.Cmd {
	return func() tea.Msg {
		exp, err := export.ForFormat(format, opts)
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(export.NewDocument(rec, now), exp, opts)
		return exportDoneMsg{Path: path, Err: err}
	}
}
