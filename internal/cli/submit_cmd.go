// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/storage"
)

// =============================================================================
// SUBMIT
// =============================================================================

func (a *App) newSubmitCommand() *cobra.Command {
	var (
		title    string
		language string
		watch    bool
	)
	cmd := &cobra.Command{
		Use:   "submit [file|-]",
		Short: "Submit code for analysis",
		Long: `Submit code for analysis. The code is read from file, or from stdin when
the file is "-" or omitted. The title defaults to the file name.

Languages: ` + languageList(),
		Example: `  lintara submit --language go main.go
  git diff | lintara submit --title "pending change" --language other --watch`,
		Args: maximumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			if title == "" && path != "-" {
				title = filepath.Base(path)
			}
			lang, err := resolveLanguage(language)
			if err != nil {
				return err
			}
			code, err := a.readSource(path)
			if err != nil {
				return err
			}

			in := api.AnalysisInput{Title: title, CodeContent: code, Language: lang}
			if err := in.Validate(); err != nil {
				return err
			}
			return a.runSubmit(cmd.Context(), in, watch)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "analysis title (default: file name)")
	cmd.Flags().StringVarP(&language, "language", "l", model.DefaultLanguage, "source language")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "wait for the analysis and show the report")
	return cmd
}

func (a *App) runSubmit(ctx context.Context, in api.AnalysisInput, watch bool) error {
	client, sess, err := a.authedClient()
	if err != nil {
		return err
	}
	rec, err := client.Create(ctx, in)
	if err != nil {
		return NewCommandError("submit", "the service rejected the analysis", err)
	}
	a.logger.Info("analysis submitted", zap.Int64("id", int64(rec.ID)), zap.String("language", rec.Language))

	scope := storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username}
	a.withCache(func(c *storage.Cache) error {
		return c.Put(ctx, scope, *rec)
	})

	if watch {
		if !a.jsonOut {
			fmt.Fprintf(a.Stdout, "Submitted analysis #%s\n", rec.ID)
		}
		return a.runWatch(ctx, rec.ID, 0)
	}
	if a.jsonOut {
		return a.printJSON("submit", rec)
	}
	fmt.Fprintf(a.Stdout, "%s analysis #%s (%s)\n", a.out.Success.Render("Submitted"), rec.ID, rec.Status)
	fmt.Fprintln(a.Stdout, a.out.Dim.Render("Follow it with `lintara watch "+rec.ID.String()+"`."))
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

func (a *App) newUpdateCommand() *cobra.Command {
	var (
		title    string
		language string
	)
	cmd := &cobra.Command{
		Use:   "update <id> [file|-]",
		Short: "Change an analysis and queue it for a fresh review",
		Long: `Change the title, language or code of an analysis. Fields that are not
given keep their current values. The service discards the old result and
queues the analysis again.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, _, err := a.authedClient()
			if err != nil {
				return err
			}
			cur, err := client.Get(ctx, id)
			if err != nil {
				return NewCommandError("update", "could not fetch analysis "+id.String(), err)
			}

			in := api.AnalysisInput{Title: cur.Title, CodeContent: cur.CodeContent, Language: cur.Language}
			changed := false
			if cmd.Flags().Changed("title") {
				in.Title = title
				changed = true
			}
			if cmd.Flags().Changed("language") {
				if in.Language, err = resolveLanguage(language); err != nil {
					return err
				}
				changed = true
			}
			if len(args) == 2 {
				if in.CodeContent, err = a.readSource(args[1]); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				return &usageError{err: fmt.Errorf("nothing to update, give --title, --language or a code file")}
			}
			if err := in.Validate(); err != nil {
				return err
			}

			rec, err := client.Update(ctx, id, in)
			if err != nil {
				return NewCommandError("update", "could not update analysis "+id.String(), err)
			}
			if a.jsonOut {
				return a.printJSON("update", rec)
			}
			fmt.Fprintf(a.Stdout, "%s analysis #%s, queued for analysis (%s)\n", a.out.Success.Render("Updated"), rec.ID, rec.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&language, "language", "l", "", "new language")
	return cmd
}

// =============================================================================
// REANALYZE
// =============================================================================

func (a *App) newReanalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reanalyze <id>",
		Short: "Queue an analysis for another review",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, err := a.authedClient()
			if err != nil {
				return err
			}
			rec, err := client.Reanalyze(cmd.Context(), id)
			if err != nil {
				return NewCommandError("reanalyze", "could not queue analysis "+id.String(), err)
			}
			if a.jsonOut {
				return a.printJSON("reanalyze", rec)
			}
			fmt.Fprintf(a.Stdout, "%s for analysis #%s\n", a.out.Success.Render("Re-analysis queued"), id)
			return nil
		},
	}
}

// =============================================================================
// DELETE
// =============================================================================

func (a *App) newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an analysis",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.RequireConfirmation(yes, "Delete analysis #"+id.String()); err != nil {
				return err
			}

			ctx := cmd.Context()
			client, sess, err := a.authedClient()
			if err != nil {
				return err
			}
			if err := client.Delete(ctx, id); err != nil {
				return NewCommandError("delete", "could not delete analysis "+id.String(), err)
			}
			scope := storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username}
			a.withCache(func(c *storage.Cache) error {
				return c.Delete(ctx, scope, id)
			})

			if a.jsonOut {
				return a.printJSON("delete", map[string]interface{}{"id": id, "deleted_at": a.Now().UTC().Format(time.RFC3339)})
			}
			fmt.Fprintf(a.Stdout, "%s analysis #%s\n", a.out.Success.Render("Deleted"), id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// =============================================================================
// LANGUAGES
// =============================================================================

// resolveLanguage maps a value or label onto the wire value.
func resolveLanguage(s string) (string, error) {
	if s == "" {
		return model.DefaultLanguage, nil
	}
	l, ok := model.LookupLanguage(s)
	if !ok {
		return "", NewValidationErrorWithExample("language", s, "not a supported language",
			"--language "+model.DefaultLanguage+" (one of "+languageList()+")")
	}
	return l.Value, nil
}

func languageList() string {
	values := make([]string, len(model.Languages))
	for i, l := range model.Languages {
		values[i] = l.Value
	}
	return strings.Join(values, ", ")
}
