// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/reconcile"
	"github.com/jeranaias/lintara-tui/internal/report"
	"github.com/jeranaias/lintara-tui/internal/storage"
	"github.com/jeranaias/lintara-tui/internal/ui/components"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
	"github.com/jeranaias/lintara-tui/internal/util"
)

// recordView is the --json shape of show, watch and render.
type recordView struct {
	Record *model.AnalysisRecord `json:"record,omitempty"`
	Report report.Output         `json:"report"`
}

// listView is the --json shape of list.
type listView struct {
	Records  []model.AnalysisRecord `json:"records"`
	Offline  bool                   `json:"offline"`
	SyncedAt *time.Time             `json:"synced_at,omitempty"`
}

// =============================================================================
// LIST
// =============================================================================

func (a *App) newListCommand() *cobra.Command {
	var (
		offline bool
		opts    api.ListOptions
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your analyses, newest first",
		Long: `List your analyses, newest first.

Each successful list replaces the offline cache, so --offline shows the last
list fetched by this command or the dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context(), offline || a.cfg.API.Offline, opts)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "show the cached list without contacting the service")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "records to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "records to fetch (default api.page_size)")
	return cmd
}

func (a *App) runList(ctx context.Context, offline bool, opts api.ListOptions) error {
	if opts.Skip < 0 || opts.Limit < 0 {
		return NewValidationError("paging", fmt.Sprintf("skip=%d limit=%d", opts.Skip, opts.Limit), "must not be negative")
	}

	view := listView{Offline: offline}
	if offline {
		records, synced, err := a.cachedList(ctx)
		if err != nil {
			return err
		}
		view.Records = records
		if !synced.IsZero() {
			view.SyncedAt = &synced
		}
	} else {
		client, sess, err := a.authedClient()
		if err != nil {
			return err
		}
		records, err := client.List(ctx, opts)
		if err != nil {
			return NewCommandError("list", "could not fetch analyses", err)
		}
		view.Records = records

		// only a first page is a faithful copy of the dashboard's list
		if opts.Skip == 0 {
			scope := storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username}
			a.withCache(func(c *storage.Cache) error {
				return c.ReplaceAll(ctx, scope, records)
			})
		}
	}

	if a.jsonOut {
		if view.Records == nil {
			view.Records = []model.AnalysisRecord{}
		}
		return a.printJSON("list", view)
	}

	a.printRecords(view.Records)
	if offline {
		synced := "never"
		if view.SyncedAt != nil {
			synced = components.RelativeTime(*view.SyncedAt, a.Now())
		}
		fmt.Fprintf(a.Stdout, "\n%s\n", a.out.Dim.Render("offline, cached "+synced))
	}
	return nil
}

// cachedList reads the cached list for the current account.
func (a *App) cachedList(ctx context.Context) ([]model.AnalysisRecord, time.Time, error) {
	cache, err := a.openCache()
	if err != nil {
		return nil, time.Time{}, NewCommandError("list", "could not open the offline cache", err)
	}
	if cache == nil {
		return nil, time.Time{}, NewValidationErrorWithExample("cache.enabled", "false",
			"the offline cache is disabled", "lintara config set cache.enabled true")
	}
	defer cache.Close()

	scope := a.scope()
	records, err := cache.List(ctx, scope)
	if err != nil {
		return nil, time.Time{}, err
	}
	synced, _, err := cache.LastSync(ctx, scope)
	if err != nil {
		return nil, time.Time{}, err
	}
	return records, synced, nil
}

const (
	colID       = 6
	colStatus   = 15
	colLanguage = 12
	colCreated  = 16
)

func (a *App) printRecords(records []model.AnalysisRecord) {
	if len(records) == 0 {
		fmt.Fprintln(a.Stdout, a.out.Dim.Render(components.EmptyHint))
		return
	}

	theme := a.theme()
	titleWidth := GetTerminalWidth() - colID - colStatus - colLanguage - colCreated
	if titleWidth < 20 {
		titleWidth = 20
	}

	header := util.PadRight("ID", colID) + util.PadRight("STATUS", colStatus) +
		util.PadRight("LANGUAGE", colLanguage) + util.PadRight("SUBMITTED", colCreated) + "TITLE"
	fmt.Fprintln(a.Stdout, a.out.Section.Render(header))

	now := a.Now()
	for _, rec := range records {
		status := styles.StatusIndicator(rec.Status) + " " + components.StatusLabel(rec.Status)
		fmt.Fprintln(a.Stdout,
			util.PadRight(rec.ID.String(), colID)+
				theme.StatusStyle(rec.Status).Render(util.PadRight(status, colStatus))+
				util.PadRight(util.TruncateWidth(model.LanguageLabel(rec.Language), colLanguage-1), colLanguage)+
				a.out.Dim.Render(util.PadRight(components.RelativeTime(rec.CreatedAt.Time, now), colCreated))+
				util.TruncateWidth(util.SingleLine(rec.Title), titleWidth))
	}
}

// =============================================================================
// SHOW
// =============================================================================

func (a *App) newShowCommand() *cobra.Command {
	var (
		offline  bool
		showCode bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an analysis and its rendered report",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rec, err := a.fetchRecord(cmd.Context(), "show", id, offline || a.cfg.API.Offline)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON("show", recordView{Record: rec, Report: report.RenderRecord(*rec)})
			}
			a.printRecord(*rec, showCode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "read the record from the offline cache")
	cmd.Flags().BoolVar(&showCode, "code", false, "also print the submitted code")
	return cmd
}

// fetchRecord loads one record from the service and refreshes its cache
// entry, or reads it from the cache when offline.
func (a *App) fetchRecord(ctx context.Context, command string, id model.ID, offline bool) (*model.AnalysisRecord, error) {
	if offline {
		cache, err := a.openCache()
		if err != nil {
			return nil, NewCommandError(command, "could not open the offline cache", err)
		}
		if cache == nil {
			return nil, NewValidationError("cache.enabled", "false", "the offline cache is disabled")
		}
		defer cache.Close()
		rec, err := cache.Get(ctx, a.scope(), id)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	}

	client, sess, err := a.authedClient()
	if err != nil {
		return nil, err
	}
	rec, err := client.Get(ctx, id)
	if err != nil {
		return nil, NewCommandError(command, "could not fetch analysis "+id.String(), err)
	}
	scope := storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username}
	a.withCache(func(c *storage.Cache) error {
		return c.Put(ctx, scope, *rec)
	})
	return rec, nil
}

func (a *App) printRecord(rec model.AnalysisRecord, showCode bool) {
	theme := a.theme()
	width := GetTerminalWidth()
	now := a.Now()

	fmt.Fprintln(a.Stdout, a.out.Title.Render("#"+rec.ID.String()+"  "+util.SingleLine(rec.Title)))
	fmt.Fprintln(a.Stdout, a.out.Label.Render("Status")+components.StatusBadge(theme, rec.Status))
	fmt.Fprintln(a.Stdout, a.out.Label.Render("Language")+a.out.Value.Render(model.LanguageLabel(rec.Language)))
	fmt.Fprintln(a.Stdout, a.out.Label.Render("Submitted")+a.out.Value.Render(components.RelativeTime(rec.CreatedAt.Time, now)))
	if rec.CompletedAt != nil {
		fmt.Fprintln(a.Stdout, a.out.Label.Render("Completed")+a.out.Value.Render(components.RelativeTime(rec.CompletedAt.Time, now)))
	}
	fmt.Fprintln(a.Stdout, Separator(min(width, 60)))

	view := components.NewReportView(theme)
	view.SetWidth(width)
	view.WordWrap = a.cfg.UI.WordWrap
	fmt.Fprintln(a.Stdout, view.Render(report.RenderRecord(rec), ""))

	if showCode && rec.CodeContent != "" {
		code := components.NewCodeBlock(rec.Language, rec.CodeContent)
		code.SetMaxWidth(width)
		fmt.Fprintln(a.Stdout)
		fmt.Fprintln(a.Stdout, a.out.Section.Render("Submitted code"))
		fmt.Fprintln(a.Stdout, code.Render(theme))
	}
}

// =============================================================================
// WATCH
// =============================================================================

func (a *App) newWatchCommand() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Poll an analysis until it completes or fails, then show it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.runWatch(cmd.Context(), id, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default poll.interval_secs)")
	return cmd
}

// runWatch re-fetches the record on every scheduler tick while it is
// pending or processing. Status changes are printed as they are seen.
func (a *App) runWatch(ctx context.Context, id model.ID, interval time.Duration) error {
	if interval <= 0 {
		interval = a.cfg.Poll.Interval()
	}
	client, sess, err := a.authedClient()
	if err != nil {
		return err
	}

	ticks := make(chan struct{}, 1)
	sched := reconcile.NewScheduler(a.Clock, interval, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer sched.Disarm()

	theme := a.theme()
	var last model.Status
	for {
		rec, err := client.Get(ctx, id)
		if err != nil {
			return NewCommandError("watch", "could not fetch analysis "+id.String(), err)
		}
		if rec.Status != last {
			last = rec.Status
			a.logger.Debug("watch status", zap.Int64("id", int64(id)), zap.String("status", rec.Status.String()))
			if !a.jsonOut {
				fmt.Fprintf(a.Stdout, "%s %s\n",
					a.out.Dim.Render(a.Now().Format("15:04:05")),
					components.StatusBadge(theme, rec.Status))
			}
		}

		sched.Set(reconcile.ShouldPoll([]model.AnalysisRecord{*rec}))
		if !sched.Armed() {
			scope := storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username}
			a.withCache(func(c *storage.Cache) error {
				return c.Put(ctx, scope, *rec)
			})
			if a.jsonOut {
				return a.printJSON("watch", recordView{Record: rec, Report: report.RenderRecord(*rec)})
			}
			fmt.Fprintln(a.Stdout)
			a.printRecord(*rec, false)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
		}
	}
}

// =============================================================================
// RENDER
// =============================================================================

func (a *App) newRenderCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render analysis text from a file or stdin",
		Long: `Render analysis text from a file, or stdin when the file is "-" or
omitted, exactly as the dashboard would show it. Nothing is sent to the
service.`,
		Args: maximumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := a.readSource(path)
			if err != nil {
				return err
			}

			out := report.Render(model.Status(status), &text)
			if a.jsonOut {
				return a.printJSON("render", recordView{Report: out})
			}
			view := components.NewReportView(a.theme())
			view.SetWidth(GetTerminalWidth())
			view.WordWrap = a.cfg.UI.WordWrap
			fmt.Fprintln(a.Stdout, view.Render(out, ""))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(model.StatusCompleted), "status to render the text under")
	return cmd
}

// readSource reads a file, or stdin for "-".
func (a *App) readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// =============================================================================
// ARGUMENTS
// =============================================================================

func parseID(s string) (model.ID, error) {
	id, err := model.ParseID(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, NewValidationErrorWithExample("id", s, "must be a positive number", "lintara show 42")
	}
	return id, nil
}

// exactArgs wraps cobra.ExactArgs so arity errors map to the usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return usageArgs(cobra.ExactArgs(n))
}

func maximumArgs(n int) cobra.PositionalArgs {
	return usageArgs(cobra.MaximumNArgs(n))
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return usageArgs(cobra.RangeArgs(lo, hi))
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
