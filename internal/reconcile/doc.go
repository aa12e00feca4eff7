// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reconcile keeps a user's selection coherent while the analysis
// list is refreshed underneath it.
//
// # Key Types
//
//   - Controller: owns the record list and the Selection. Every fetch is
//     stamped with a monotonically increasing sequence number and only the
//     response to the latest dispatched fetch is applied.
//   - Scheduler: a periodic poll timer with explicit Arm/Disarm, driven by an
//     injectable Clock so tests never sleep.
//   - Reconcile / ShouldPoll: the pure rules the Controller applies.
//
// # Threading
//
// Controller is not safe for concurrent use. It is meant to be driven from a
// single loop: the Bubble Tea Update function, or the select loop of
// "lintara watch". Scheduler is safe for concurrent use because its ticks
// arrive on timer goroutines.
package reconcile
