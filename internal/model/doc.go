// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the Lintara
// analysis service.
//
// # Key Types
//
//   - AnalysisRecord: one code submission and its (possibly pending) report
//   - Status: the record lifecycle, an open set at the wire boundary
//   - ID: the stable record key used for selection
//   - Timestamp: a time that accepts the service's zone-less ISO format
//
// Records are read-only inputs. Nothing in lintara mutates a record after
// decoding it; a refresh always produces new values.
package model
