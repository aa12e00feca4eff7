// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/lintara-tui/internal/export"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

func (a *App) newExportCommand() *cobra.Command {
	var (
		format  string
		outDir  string
		noCode  bool
		offline bool
		theme   string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write an analysis report to a file",
		Long: `Write an analysis report to a Markdown, HTML, JSON or YAML file named
analysis_<id>_<title>.<ext> in the output directory.`,
		Example: `  lintara export 42 --format html --output ~/reports`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			opts := export.DefaultOptions()
			opts.OutputDir = outDir
			opts.IncludeCode = !noCode
			opts.Theme = theme
			if opts.Theme == "" {
				opts.Theme = styles.NormalizeMode(a.cfg.UI.Theme)
				if opts.Theme == styles.ModeAuto {
					opts.Theme = styles.ModeDark
				}
			}

			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return NewValidationErrorWithExample("format", format, "unsupported", "--format "+strings.Join(export.Formats, "|"))
			}
			rec, err := a.fetchRecord(cmd.Context(), "export", id, offline || a.cfg.API.Offline)
			if err != nil {
				return err
			}

			path, err := export.ExportToFile(export.NewDocument(*rec, a.Now()), exporter, opts)
			if err != nil {
				return NewCommandError("export", "could not write the report", err)
			}
			if a.jsonOut {
				return a.printJSON("export", map[string]string{"path": path, "format": format})
			}
			fmt.Fprintf(a.Stdout, "%s %s\n", a.out.Success.Render("Exported to"), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCode, "no-code", false, "leave the submitted code out")
	cmd.Flags().BoolVar(&offline, "offline", false, "export the cached copy")
	cmd.Flags().StringVar(&theme, "theme", "", "HTML theme, dark or light (default ui.theme)")
	return cmd
}
