// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the offline analysis cache for lintara.
//
// The last list applied by the dashboard is mirrored into a SQLite database
// so the next start can show something before the first fetch returns, and
// "lintara list --offline" works without the service.
//
// # Key Types
//
//   - Cache: SQLite-backed record store, partitioned by Scope
//   - Scope: Which service and account a set of records belongs to
//
// # Usage
//
//	cache, err := storage.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer cache.Close()
//	err = cache.ReplaceAll(ctx, scope, records)
//	records, err := cache.List(ctx, scope)
//
// Use errors.Is(err, ErrRecordNotFound) to check for a cache miss.
package storage
