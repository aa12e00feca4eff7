// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/config"
	"github.com/jeranaias/lintara-tui/internal/export"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case listFetchedMsg:
		return m, m.onListFetched(msg)

	case pollTickMsg:
		if !m.ctrl.ShouldDispatchTick() {
			m.logger.Debug("poll tick skipped, fetch in flight")
			return m, nil
		}
		return m, m.refresh()

	case cacheLoadedMsg:
		return m, m.onCacheLoaded(msg)

	case cacheWrittenMsg:
		m.logger.Warn("cache write failed", zap.Error(msg.Err))
		return m, nil

	case submitDoneMsg:
		return m, m.onSubmitDone(msg)

	case deleteDoneMsg:
		if msg.Err != nil {
			m.statusBar.SetError(fmt.Errorf("delete failed: %w", msg.Err))
		} else {
			m.statusBar.SetInfo("Analysis deleted")
		}
		return m, m.refresh()

	case reanalyzeDoneMsg:
		if msg.Err != nil {
			m.statusBar.SetError(fmt.Errorf("re-analyze failed: %w", msg.Err))
			return m, nil
		}
		m.statusBar.SetInfo("Re-analysis queued")
		return m, m.refresh()

	case exportDoneMsg:
		if msg.Err != nil {
			m.statusBar.SetError(msg.Err)
		} else {
			m.statusBar.SetInfo("Exported to " + msg.Path)
		}
		return m, nil

	case configChangedMsg:
		if msg.Err != nil {
			m.statusBar.SetError(fmt.Errorf("config reload: %w", msg.Err))
			return m, nil
		}
		m.applyConfig(msg.Config)
		m.statusBar.SetInfo("Configuration reloaded")
		return m, m.renderDetail()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.spinner.IsActive() {
			content, _ := m.detailContent()
			m.detail.SetContent(content)
		}
		return m, cmd
	}

	// cursor blinks and other widget messages
	if m.mode == modeSubmit {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// FETCH RESULTS
// =============================================================================

func (m *Model) onListFetched(msg listFetchedMsg) tea.Cmd {
	if msg.Err != nil {
		if m.ctrl.OnFetchError(msg.Seq, msg.Err) {
			m.statusBar.Loading = false
			m.statusBar.SetError(describeError(msg.Err))
		}
		return nil
	}

	upd, ok := m.ctrl.OnFetchSuccess(msg.Seq, msg.Records)
	if !ok {
		return nil
	}
	m.statusBar.Loading = false
	m.statusBar.LastRefresh = m.now()
	m.setOffline(false)

	cmds := []tea.Cmd{m.applyUpdate(upd)}
	if m.cache != nil {
		cmds = append(cmds, writeCacheCmd(m.ctx, m.cache, m.scope, upd.Records))
	}
	return tea.Batch(cmds...)
}

func (m *Model) onCacheLoaded(msg cacheLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("cache load failed", zap.Error(msg.Err))
		return nil
	}
	if len(msg.Records) == 0 {
		return nil
	}
	upd, ok := m.ctrl.Seed(msg.Records)
	if !ok {
		return nil
	}
	m.setOffline(true)
	m.statusBar.LastRefresh = msg.SyncedAt
	return m.applyUpdate(upd)
}

func (m *Model) setOffline(offline bool) {
	m.offline = offline
	m.header.Offline = offline
}

func (m *Model) onSubmitDone(msg submitDoneMsg) tea.Cmd {
	m.submitting = false
	if msg.Err != nil {
		m.form.SetError(msg.Err)
		m.statusBar.SetError(fmt.Errorf("submit failed: %w", msg.Err))
		return nil
	}
	m.mode = modeBrowse
	m.layout()
	m.statusBar.SetInfo("Analysis submitted")
	var cmds []tea.Cmd
	if msg.Record != nil {
		m.ctrl.Select(msg.Record.ID)
		m.list.SetSelection(m.ctrl.Selection())
		cmds = append(cmds, m.setFocus(paneDetail))
	}
	cmds = append(cmds, m.refresh())
	return tea.Batch(cmds...)
}

// describeError turns a client error into status-line text.
func describeError(err error) error {
	if api.IsUnauthorized(err) {
		return errors.New("not signed in or session expired, run `lintara login`")
	}
	return err
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// applyConfig applies the settings that can change while running: poll
// interval, theme, word wrap, code pane.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if d := cfg.Poll.Interval(); d != m.sched.Interval() {
		m.sched.SetInterval(d)
		m.logger.Info("poll interval changed", zap.Duration("interval", d))
	}
	m.statusBar.Interval = m.sched.Interval()

	if styles.NormalizeMode(cfg.UI.Theme) != m.theme.Mode {
		m.setTheme(styles.NewThemeFor(cfg.UI.Theme, m.out))
	}
	m.reportView.WordWrap = cfg.UI.WordWrap
	m.showCode = cfg.UI.ShowCode
	m.cfg = cfg
	m.layout()
}

func (m *Model) setTheme(theme *styles.Theme) {
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.header.SetTheme(theme)
	m.list.SetTheme(theme)
	m.reportView.SetTheme(theme)
	m.statusBar.SetTheme(theme)
	m.form.SetTheme(theme)
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.mode {
	case modeSubmit:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()

	case key.Matches(msg, k.Focus):
		if m.focus == paneList {
			return m.setFocus(paneDetail)
		}
		return m.setFocus(paneList)

	case key.Matches(msg, k.Open):
		return m.setFocus(paneDetail)

	case key.Matches(msg, k.Up):
		if m.focus == paneDetail {
			m.detail.LineUp(1)
			return nil
		}
		return m.move(-1)

	case key.Matches(msg, k.Down):
		if m.focus == paneDetail {
			m.detail.LineDown(1)
			return nil
		}
		return m.move(1)

	case key.Matches(msg, k.PageUp):
		m.detail.HalfViewUp()

	case key.Matches(msg, k.PageDown):
		m.detail.HalfViewDown()

	case key.Matches(msg, k.Refresh):
		m.statusBar.Clear()
		return m.refresh()

	case key.Matches(msg, k.New):
		m.mode = modeSubmit
		m.layout()
		return m.form.Reset()

	case key.Matches(msg, k.Reanalyze):
		rec, ok := m.selectedRecord()
		if !ok {
			return nil
		}
		m.statusBar.SetInfo("Requesting re-analysis...")
		return reanalyzeCmd(m.ctx, m.svc, rec.ID)

	case key.Matches(msg, k.Delete):
		sel := m.ctrl.Selection()
		if !sel.Valid {
			return nil
		}
		m.pendingDelete = sel.ID
		m.mode = modeConfirmDelete

	case key.Matches(msg, k.Export):
		rec, ok := m.selectedRecord()
		if !ok {
			return nil
		}
		opts := export.DefaultOptions()
		opts.OutputDir = m.exportDir
		opts.Theme = m.theme.Mode
		return exportCmd(rec, "md", opts, m.now())

	case key.Matches(msg, k.Code):
		m.showCode = !m.showCode
		m.layout()
		return m.renderDetail()
	}
	return nil
}

// setFocus moves focus; narrow layouts show only the focused pane.
func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	m.layout()
	return m.renderDetail()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	result, cmd := m.form.Update(msg)
	switch result {
	case formCancelled:
		if m.submitting {
			return nil
		}
		m.mode = modeBrowse
		m.layout()
		return nil
	case formSubmitted:
		if m.submitting {
			return nil
		}
		m.submitting = true
		m.statusBar.SetInfo("Submitting analysis...")
		return submitCmd(m.ctx, m.svc, m.form.Input())
	}
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.pendingDelete
		m.mode = modeBrowse
		m.ctrl.BeginDelete(id)
		m.list.SetSelection(m.ctrl.Selection())
		m.statusBar.SetInfo("Deleting analysis...")
		return tea.Batch(m.renderDetail(), deleteCmd(m.ctx, m.svc, id))
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
	}
	return nil
}
