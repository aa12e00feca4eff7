// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/lintara-tui/internal/config"
)

// =============================================================================
// CONFIG
// =============================================================================

func (a *App) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change settings in ~/.lintara/config.toml.

Keys use dot notation, e.g. poll.interval_secs or ui.theme. Run
"lintara config keys" for the full list. The dashboard picks up changes to
the poll interval and theme while it is running.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				safe := a.cfg.Clone()
				if safe.API.Token != "" {
					safe.API.Token = "[REDACTED]"
				}
				if a.jsonOut {
					return a.printJSON("config show", safe)
				}
				return toml.NewEncoder(a.Stdout).Encode(safe)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.jsonOut {
					return a.printJSON("config path", map[string]string{"path": a.configPath})
				}
				fmt.Fprintln(a.Stdout, a.configPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.cfg.Get(args[0])
				if err != nil {
					return NewValidationErrorWithExample("key", args[0], err.Error(), "lintara config get poll.interval_secs")
				}
				if args[0] == "api.token" && v != "" {
					v = "[REDACTED]"
				}
				if a.jsonOut {
					return a.printJSON("config get", map[string]interface{}{"key": args[0], "value": v})
				}
				fmt.Fprintln(a.Stdout, v)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Change one setting and save the file",
			Example: "  lintara config set poll.interval_secs 10\n  lintara config set ui.theme light",
			Args:    exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runConfigSet(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List the setting keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.jsonOut {
					return a.printJSON("config keys", config.GetAllKeys())
				}
				for _, k := range config.GetAllKeys() {
					fmt.Fprintln(a.Stdout, k)
				}
				return nil
			},
		},
	)
	return cmd
}

// runConfigSet edits the file on disk. Environment overrides and --api-url
// apply to this run only and are never written back.
func (a *App) runConfigSet(key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(a.configPath); err == nil {
		if err := config.LoadTOML(cfg, a.configPath); err != nil {
			return &ConfigError{Path: a.configPath, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Path: a.configPath, Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return NewValidationErrorWithExample("key", key, err.Error(), "lintara config set ui.theme light")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := config.SaveTOML(cfg, a.configPath); err != nil {
		return &ConfigError{Path: a.configPath, Err: err}
	}

	if a.jsonOut {
		return a.printJSON("config set", map[string]string{"key": key, "value": value, "path": a.configPath})
	}
	fmt.Fprintf(a.Stdout, "%s %s = %s\n", a.out.Success.Render("Set"), key, value)
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

// VersionInfo is printed by `lintara version`.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if a.jsonOut {
				return a.printJSON("version", info)
			}
			fmt.Fprintf(a.Stdout, "lintara %s (%s, built %s, %s %s)\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
			return nil
		},
	}
}
