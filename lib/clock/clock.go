// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code
// injects [Real]; tests inject [NewFake] and advance it
// deterministically. The oracle node uses the clock for commitment
// expiration arithmetic, so cancellation-timing tests never sleep.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. Every production function that
// would call time.Now takes a Clock instead.
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by the system time.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fake is a manually advanced Clock for tests. Safe for concurrent
// use.
type Fake struct {
	mutex   sync.Mutex
	current time.Time
}

// NewFake returns a Fake pinned to start.
func NewFake(start time.Time) *Fake {
	return &Fake{current: start}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.current
}

// Advance moves the fake's time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.current = f.current.Add(d)
}
