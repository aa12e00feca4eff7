// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package dashboard implements the interactive lintara terminal UI.

The dashboard lists the user's analyses, shows the selected record's report
and polls the service while any record is pending or processing.

# Architecture

Bubble Tea's Update loop is the only place state changes. List fetches run
as commands and come back as listFetchedMsg values carrying the sequence
number handed out by reconcile.Controller.BeginFetch, so a response that
was superseded by a newer fetch, or that arrives after quit, is dropped.

Polling is driven by a reconcile.Scheduler. Its timer callback does not
touch the model; it sends pollTickMsg through the program, and Update
decides whether to start a fetch.

# Key Types

  - Model: the tea.Model
  - Options: service, cache, config and clock wiring
  - SubmitForm: title, language picker and code editor
  - KeyMap / FormKeyMap: bindings shown by bubbles/help

# Usage

	configPath, _ := config.ConfigPathTOML()
	err := dashboard.Run(ctx, dashboard.Options{
		Service: client,
		Cache:   cache,
		Scope:   storage.Scope{BaseURL: cfg.API.BaseURL, Username: sess.Username},
		Config:  cfg,
		Logger:  logger,
	}, configPath)
*/
package dashboard
