// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the login token between runs.
//
// The session file lives next to the config (~/.lintara/session.json) and is
// always written with 0600 permissions.
//
// # Usage
//
//	store, _ := session.DefaultStore()
//	sess, err := store.Load()
//	if errors.Is(err, session.ErrNoSession) {
//	    // not logged in
//	}
package session
