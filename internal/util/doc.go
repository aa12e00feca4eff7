// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the lintara packages.
//
// String helpers are display-width aware (go-runewidth) so list rows and
// status lines line up when titles contain CJK or emoji. AtomicWriteFile is
// used for every file lintara writes on the user's behalf (config, session,
// exports).
package util
