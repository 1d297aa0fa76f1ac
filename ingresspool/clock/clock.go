// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clock provides the TimeSource port the ingress pool depends on,
// plus a fixed test double and an adapter over the test-controllable
// clock the teacher module threads through its own mockable-time
// collaborators.
package clock

import (
	"time"

	"github.com/luxfi/node/utils/timer/mockable"
)

// Source is the time port the pool consumes: monotonic within a process,
// test-controllable. Mirrors spec.md §6's TimeSource contract.
type Source interface {
	Now() time.Time
}

// Mockable adapts *mockable.Clock — the same test-controllable clock the
// teacher wraps in plugin/evm/clock_wrapper.go — to the Source interface.
type Mockable struct {
	Clock *mockable.Clock
}

// NewMockable wraps clock as a Source. A nil clock is replaced with a
// fresh real-time mockable.Clock.
func NewMockable(clock *mockable.Clock) Mockable {
	if clock == nil {
		clock = &mockable.Clock{}
	}
	return Mockable{Clock: clock}
}

func (m Mockable) Now() time.Time { return m.Clock.Time() }

// Fixed is a deterministic Source for tests that never advances on its
// own; call Set to move it forward.
type Fixed struct {
	t time.Time
}

// NewFixed returns a Fixed source starting at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time { return f.t }

// Set moves the fixed source to t.
func (f *Fixed) Set(t time.Time) { f.t = t }

// Advance moves the fixed source forward by d.
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }
