// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the lintara command line.
//
// With no subcommand lintara opens the dashboard. The subcommands cover the
// same operations for scripts and quick checks, and all of them accept
// --json for machine-readable output.
//
// # Key Types
//
//   - App: stdio, session, cache and config shared by every command
//   - JSONResponse: the --json envelope
//   - CommandError / ValidationError / ConfigError: mapped to exit codes by ExitCodeFor
//
// # Usage
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//	    os.Exit(cli.Execute(ctx))
//	}
//
// # Commands
//
// Analyses:
//   - list [--offline]: newest first, mirrored into the offline cache
//   - show <id>, watch <id>, render [file|-]
//   - submit [file|-], update <id> [file|-], reanalyze <id>, delete <id>
//   - export <id> --format md|html|json|yaml
//
// Account and settings:
//   - login, logout, register
//   - config show|path|get|set|keys, version
package cli
