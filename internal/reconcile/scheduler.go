// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"sync"
	"time"
)

// DefaultPollInterval matches the service's expected client refresh rate.
const DefaultPollInterval = 5 * time.Second

// Scheduler fires onTick every interval while armed. It does not fetch
// anything itself; the owner decides what a tick means.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	onTick   func()

	armed bool
	timer Timer
	gen   uint64 // bumped on every disarm so late timer callbacks are ignored
}

// NewScheduler creates a disarmed scheduler. A nil clock means RealClock and
// a non-positive interval means DefaultPollInterval.
func NewScheduler(clock Clock, interval time.Duration, onTick func()) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onTick == nil {
		onTick = func() {}
	}
	return &Scheduler{clock: clock, interval: interval, onTick: onTick}
}

// Arm starts periodic ticks. Arming an armed scheduler is a no-op, so the
// tick phase is not reset by repeated fetches.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		return
	}
	s.armed = true
	s.scheduleLocked()
}

// Disarm stops ticks. A callback already running on a timer goroutine
// completes, but no further tick is delivered.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return
	}
	s.armed = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Set arms or disarms according to shouldPoll.
func (s *Scheduler) Set(shouldPoll bool) {
	if shouldPoll {
		s.Arm()
	} else {
		s.Disarm()
	}
}

// Armed reports whether ticks are scheduled.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the period. An armed scheduler restarts its timer with
// the new period.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	if !s.armed {
		return
	}
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.scheduleLocked()
}

func (s *Scheduler) scheduleLocked() {
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if !s.armed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.scheduleLocked()
	tick := s.onTick
	s.mu.Unlock()

	tick()
}
