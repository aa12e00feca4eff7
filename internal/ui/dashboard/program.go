// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/config"
)

// Run starts the dashboard in the alternate screen and blocks until the user
// quits or ctx is cancelled. When configPath is set the file is watched and
// changes are applied live.
func Run(ctx context.Context, opts Options, configPath string) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.SetSender(p.Send)

	if configPath != "" {
		w, err := config.Watch(ctx, configPath, func(cfg *config.Config, err error) {
			p.Send(configChangedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			m.logger.Warn("config watch disabled", zap.String("path", configPath), zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	m.logger.Info("dashboard started",
		zap.String("base_url", opts.BaseURL),
		zap.Duration("poll_interval", m.sched.Interval()))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
