// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	"github.com/jeranaias/lintara-tui/internal/config"
	"github.com/jeranaias/lintara-tui/internal/model"
)

// =============================================================================
// LIST MESSAGES
// =============================================================================

// listFetchedMsg carries the result of one list fetch, tagged with the
// sequence number the controller handed out when it was dispatched.
type listFetchedMsg struct {
	Seq     uint64
	Records []model.AnalysisRecord
	Err     error
}

// pollTickMsg is sent by the scheduler's timer while polling is armed.
type pollTickMsg struct{}

// cacheLoadedMsg carries the cached list read at startup.
type cacheLoadedMsg struct {
	Records  []model.AnalysisRecord
	SyncedAt time.Time
	Err      error
}

// cacheWrittenMsg reports a failed cache write. Successful writes send
// nothing.
type cacheWrittenMsg struct {
	Err error
}

// =============================================================================
// ACTION MESSAGES
// =============================================================================

type submitDoneMsg struct {
	Record *model.AnalysisRecord
	Err    error
}

type deleteDoneMsg struct {
	ID  model.ID
	Err error
}

type reanalyzeDoneMsg struct {
	ID     model.ID
	Record *model.AnalysisRecord
	Err    error
}

type exportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// configChangedMsg is sent when the watched config file is rewritten.
type configChangedMsg struct {
	Config *config.Config
	Err    error
}
