// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake is a Clock under manual control. Time only moves when a test
// calls Advance; due timers and tickers fire synchronously inside
// that call, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
}

// fakeWaiter is a pending After channel or ticker subscription.
type fakeWaiter struct {
	deadline time.Time
	interval time.Duration // zero for one-shot After waiters
	ch       chan time.Time
	stopped  bool
}

// NewFake returns a Fake whose current time is start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After returns a channel that receives the fake time once Advance
// has moved the clock at least d past the current time. If d <= 0 the
// channel receives immediately.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- f.now
		return ch
	}
	f.waiters = append(f.waiters, &fakeWaiter{
		deadline: f.now.Add(d),
		ch:       ch,
	})
	return ch
}

// NewTicker returns a Ticker driven by Advance. Each elapsed interval
// produces at most one tick on C (capacity 1, drops like time.Ticker).
func (f *Fake) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	waiter := &fakeWaiter{
		deadline: f.now.Add(d),
		interval: d,
		ch:       make(chan time.Time, 1),
	}
	f.waiters = append(f.waiters, waiter)

	return &Ticker{
		C: waiter.ch,
		stopFunc: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			waiter.stopped = true
		},
	}
}

// Advance moves the clock forward by d, delivering every timer and
// ticker event that falls due, in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.now.Add(d)
	for {
		next := f.nextDueLocked(target)
		if next == nil {
			break
		}
		f.now = next.deadline
		select {
		case next.ch <- f.now:
		default:
			// Consumer behind; drop the tick.
		}
		if next.interval > 0 {
			next.deadline = next.deadline.Add(next.interval)
		} else {
			next.stopped = true
		}
	}
	f.now = target
	f.compactLocked()
}

// nextDueLocked returns the live waiter with the earliest deadline at
// or before target, or nil.
func (f *Fake) nextDueLocked(target time.Time) *fakeWaiter {
	var due *fakeWaiter
	for _, waiter := range f.waiters {
		if waiter.stopped || waiter.deadline.After(target) {
			continue
		}
		if due == nil || waiter.deadline.Before(due.deadline) {
			due = waiter
		}
	}
	return due
}

// compactLocked drops stopped waiters.
func (f *Fake) compactLocked() {
	live := f.waiters[:0]
	for _, waiter := range f.waiters {
		if !waiter.stopped {
			live = append(live, waiter)
		}
	}
	f.waiters = live
}
