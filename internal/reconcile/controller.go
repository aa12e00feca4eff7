// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/model"
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Update describes the state after an applied fetch.
type Update struct {
	Records    []model.AnalysisRecord
	Selection  Selection
	Selected   *model.AnalysisRecord
	ShouldPoll bool
	// Cleared is true when a previously valid selection vanished from the list.
	Cleared bool
}

// Controller owns the analysis list and the selection.
type Controller struct {
	records   []model.AnalysisRecord
	selection Selection
	selected  *model.AnalysisRecord

	dispatched uint64
	applied    uint64
	inFlight   bool
	closed     bool
	// live is set by the first successful fetch; failures leave it alone.
	live bool

	sched  *Scheduler
	logger *zap.Logger
}

// NewController creates a controller. sched may be nil when no polling is
// wanted, e.g. for one-shot CLI commands.
func NewController(sched *Scheduler, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{sched: sched, logger: logger}
}

// BeginFetch records a newly dispatched fetch and returns its sequence
// number. ok is false once the controller is closed.
func (c *Controller) BeginFetch() (seq uint64, ok bool) {
	if c.closed {
		return 0, false
	}
	c.dispatched++
	c.inFlight = true
	return c.dispatched, true
}

// InFlight reports whether the latest dispatched fetch has not resolved yet.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// ShouldDispatchTick reports whether a poll tick should start a fetch. Ticks
// are skipped while a fetch is outstanding so a slow backend cannot be
// starved by its own superseded requests.
func (c *Controller) ShouldDispatchTick() bool {
	return !c.closed && !c.inFlight
}

func (c *Controller) current(seq uint64) bool {
	return !c.closed && seq == c.dispatched && seq > c.applied
}

// OnFetchSuccess applies list if seq is the latest dispatched fetch. A stale
// or post-close response returns ok=false and changes nothing.
func (c *Controller) OnFetchSuccess(seq uint64, list []model.AnalysisRecord) (Update, bool) {
	if !c.current(seq) {
		c.logger.Debug("dropped stale fetch",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.dispatched),
			zap.Bool("closed", c.closed))
		return Update{}, false
	}
	c.applied = seq
	c.inFlight = false
	c.live = true
	return c.apply(list), true
}

// OnFetchError resolves a failed fetch. It returns true when the failure
// belongs to the latest fetch and should be surfaced. Records and selection
// are left as they were.
func (c *Controller) OnFetchError(seq uint64, err error) bool {
	if !c.current(seq) {
		c.logger.Debug("dropped stale fetch error",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.dispatched),
			zap.Error(err))
		return false
	}
	c.applied = seq
	c.inFlight = false
	c.logger.Warn("fetch failed", zap.Uint64("seq", seq), zap.Error(err))
	return true
}

// Seed applies a list that did not come from a dispatched fetch, such as the
// offline cache at startup. It is ignored once a live fetch has succeeded;
// failed fetches do not count, so the cache can still fill the list while
// the service is unreachable.
func (c *Controller) Seed(list []model.AnalysisRecord) (Update, bool) {
	if c.closed || c.live {
		return Update{}, false
	}
	return c.apply(list), true
}

func (c *Controller) apply(list []model.AnalysisRecord) Update {
	prev := c.selection
	c.records = cloneRecords(list)
	c.selection, c.selected = Reconcile(c.records, prev)

	poll := ShouldPoll(c.records)
	if c.sched != nil {
		c.sched.Set(poll)
	}

	cleared := prev.Valid && !c.selection.Valid
	if cleared {
		c.logger.Info("selection cleared", zap.Int64("id", int64(prev.ID)))
	}

	return Update{
		Records:    c.Records(),
		Selection:  c.selection,
		Selected:   c.selectedCopy(),
		ShouldPoll: poll,
		Cleared:    cleared,
	}
}

// Select sets the selection unconditionally. If the id is in the current
// list the record becomes available through Selected immediately.
func (c *Controller) Select(id model.ID) {
	c.selection = Select(id)
	c.selected = nil
	if i := model.FindByID(c.records, id); i >= 0 {
		rec := c.records[i]
		c.selected = &rec
	}
}

// ClearSelection drops the selection.
func (c *Controller) ClearSelection() {
	c.selection = NoSelection
	c.selected = nil
}

// BeginDelete clears the selection if it holds id and reports whether it did.
// The caller performs the delete and then re-fetches.
func (c *Controller) BeginDelete(id model.ID) bool {
	if !c.selection.Is(id) {
		return false
	}
	c.ClearSelection()
	return true
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.selection
}

// Selected returns a copy of the selected record, if it is known.
func (c *Controller) Selected() (model.AnalysisRecord, bool) {
	if c.selected == nil {
		return model.AnalysisRecord{}, false
	}
	return *c.selected, true
}

func (c *Controller) selectedCopy() *model.AnalysisRecord {
	if c.selected == nil {
		return nil
	}
	rec := *c.selected
	return &rec
}

// Records returns a copy of the current list.
func (c *Controller) Records() []model.AnalysisRecord {
	return cloneRecords(c.records)
}

// Live reports whether the list comes from a successful fetch.
func (c *Controller) Live() bool {
	return c.live
}

// Polling reports whether the scheduler is armed.
func (c *Controller) Polling() bool {
	return c.sched != nil && c.sched.Armed()
}

// Close disarms polling and makes every later fetch result a no-op.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.inFlight = false
	if c.sched != nil {
		c.sched.Disarm()
	}
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	return c.closed
}

func cloneRecords(list []model.AnalysisRecord) []model.AnalysisRecord {
	if list == nil {
		return nil
	}
	out := make([]model.AnalysisRecord, len(list))
	copy(out, list)
	return out
}
