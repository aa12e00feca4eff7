// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/config"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/reconcile"
	"github.com/jeranaias/lintara-tui/internal/storage"
	"github.com/jeranaias/lintara-tui/internal/ui/components"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// =============================================================================
// MODEL STATE
// =============================================================================

type viewMode int

const (
	modeBrowse        viewMode = iota // list and report
	modeSubmit                        // new analysis form
	modeConfirmDelete                 // delete dialog
)

type pane int

const (
	paneList pane = iota
	paneDetail
)

// Options configures a dashboard.
type Options struct {
	// Service is the REST client. Required.
	Service Service

	// Cache seeds the list at startup and mirrors every applied fetch.
	// nil disables the offline cache.
	Cache Cache
	Scope storage.Scope

	Config   *config.Config
	Logger   *zap.Logger
	Username string
	BaseURL  string

	// Clock drives the poll scheduler. nil means the real clock.
	Clock reconcile.Clock

	// Now stamps refresh times and exports. Defaults to time.Now.
	Now func() time.Time

	// Output is where the theme renders. Defaults to os.Stdout.
	Output io.Writer

	// ExportDir receives files written by the export key. Defaults to ".".
	ExportDir string
}

// Model is the dashboard's Bubble Tea model. All state changes happen on the
// Update goroutine; timers reach it only through messages.
type Model struct {
	svc    Service
	cache  Cache
	scope  storage.Scope
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
	out    io.Writer

	ctx    context.Context
	cancel context.CancelFunc

	ctrl  *reconcile.Controller
	sched *reconcile.Scheduler
	sink  *msgSink

	theme      *styles.Theme
	keys       KeyMap
	help       help.Model
	header     *components.Header
	list       *components.AnalysisList
	reportView *components.ReportView
	statusBar  *components.StatusBar
	spinner    components.Spinner
	detail     viewport.Model
	form       *SubmitForm

	mode       viewMode
	focus      pane
	showCode   bool
	showHelp   bool
	submitting bool
	offline    bool

	pendingDelete model.ID
	exportDir     string

	width  int
	height int
}

// msgSink forwards messages from timer goroutines into the program.
type msgSink struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *msgSink) set(fn func(tea.Msg)) {
	s.mu.Lock()
	s.send = fn
	s.mu.Unlock()
}

func (s *msgSink) Send(msg tea.Msg) {
	s.mu.Lock()
	fn := s.send
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// New creates a dashboard. Call SetSender with the program's Send before
// running it so poll ticks reach Update.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	ctx, cancel := context.WithCancel(context.Background())
	sink := &msgSink{}
	sched := reconcile.NewScheduler(opts.Clock, cfg.Poll.Interval(), func() {
		sink.Send(pollTickMsg{})
	})
	theme := styles.NewThemeFor(cfg.UI.Theme, out)

	m := &Model{
		svc:       opts.Service,
		cache:     opts.Cache,
		scope:     opts.Scope,
		cfg:       cfg,
		logger:    logger,
		now:       now,
		out:       out,
		ctx:       ctx,
		cancel:    cancel,
		ctrl:      reconcile.NewController(sched, logger),
		sched:     sched,
		sink:      sink,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		header:    components.NewHeader(theme),
		list:      components.NewAnalysisList(theme),
		statusBar: components.NewStatusBar(theme),
		spinner:   components.NewSpinner(),
		detail:    viewport.New(80, 20),
		form:      NewSubmitForm(theme),
		showCode:  cfg.UI.ShowCode,
		exportDir: exportDir,
	}
	m.reportView = components.NewReportView(theme)
	m.reportView.WordWrap = cfg.UI.WordWrap
	m.header.Username = opts.Username
	m.header.BaseURL = opts.BaseURL
	m.list.Now = now
	m.statusBar.Now = now
	m.statusBar.Interval = sched.Interval()
	m.renderDetail()
	return m
}

// SetSender connects the scheduler to a running program, normally
// tea.Program.Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.sink.set(send)
}

// Close stops polling and cancels outstanding requests. Results that arrive
// afterwards are dropped.
func (m *Model) Close() {
	m.ctrl.Close()
	m.cancel()
}

// Controller exposes the list controller, mainly for tests.
func (m *Model) Controller() *reconcile.Controller {
	return m.ctrl
}

// Offline reports whether the list on screen came from the cache rather
// than a live fetch.
func (m *Model) Offline() bool {
	return m.offline
}

// Scheduler exposes the poll scheduler, mainly for tests.
func (m *Model) Scheduler() *reconcile.Scheduler {
	return m.sched
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init loads the cache and starts the first fetch.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.cache != nil {
		cmds = append(cmds, loadCacheCmd(m.ctx, m.cache, m.scope))
	}
	cmds = append(cmds, m.refresh())
	return tea.Batch(cmds...)
}

// refresh dispatches a list fetch. A manual refresh supersedes a fetch that
// is still in flight: the older response will be dropped as stale.
func (m *Model) refresh() tea.Cmd {
	seq, ok := m.ctrl.BeginFetch()
	if !ok {
		return nil
	}
	m.statusBar.Loading = true
	m.logger.Debug("fetch dispatched", zap.Uint64("seq", seq))
	return fetchListCmd(m.ctx, m.svc, seq, api.ListOptions{Limit: m.cfg.API.PageSize})
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// =============================================================================
// SELECTION AND DETAIL
// =============================================================================

// move selects the record delta rows away from the current one.
func (m *Model) move(delta int) tea.Cmd {
	id, ok := m.list.Neighbor(delta)
	if !ok {
		return nil
	}
	if m.ctrl.Selection().Is(id) {
		return nil
	}
	m.ctrl.Select(id)
	m.list.SetSelection(m.ctrl.Selection())
	m.detail.GotoTop()
	return m.renderDetail()
}

// applyUpdate pushes an applied fetch into the widgets.
func (m *Model) applyUpdate(upd reconcile.Update) tea.Cmd {
	m.list.SetRecords(upd.Records)
	m.list.SetSelection(upd.Selection)
	m.statusBar.Polling = upd.ShouldPoll
	if upd.Cleared {
		m.statusBar.SetInfo("The selected analysis is no longer available")
	}
	return m.renderDetail()
}

// renderDetail redraws the detail pane for the current selection and starts
// or stops the spinner to match.
func (m *Model) renderDetail() tea.Cmd {
	content, processing := m.detailContent()

	var cmd tea.Cmd
	if processing {
		cmd = m.spinner.Start()
		if cmd != nil {
			// first frame is drawn before the first tick
			content, _ = m.detailContent()
		}
	} else {
		m.spinner.Stop()
	}
	m.detail.SetContent(content)
	return cmd
}

func (m *Model) selectedRecord() (model.AnalysisRecord, bool) {
	return m.ctrl.Selected()
}
