// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Lintara analysis service.
//
// # Key Types
//
//   - Client: Thread-safe REST client with bearer auth and request pacing
//   - ClientError: Categorized error carrying the HTTP status and the
//     service's "detail" message
//   - AnalysisInput: Title, language and source for create and update
//
// # Usage
//
//	client := api.NewClient(api.DefaultConfig())
//	if _, err := client.Login(ctx, "ada", "secret"); err != nil {
//	    return err
//	}
//	list, err := client.List(ctx, api.ListOptions{})
//
// Concurrent List calls with the same page are collapsed into one request.
package api
