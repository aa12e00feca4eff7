// lintara - terminal client for the code analysis service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/lintara-tui/internal/cli"
)

// Build metadata lives in the cli package:
//
//	go build -ldflags "-X github.com/jeranaias/lintara-tui/internal/cli.Version=0.1.0"
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
