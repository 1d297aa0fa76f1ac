// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"time"

	"github.com/luxfi/ingresspool/ingresspool/clock"
)

// Priority is the verdict a PriorityFunc hands the gossip layer for a
// given candidate id. Fetch is modeled for forward wire compatibility with
// collaborating nodes' advert/request protocol; this pool's own
// PriorityFunc only ever produces Later or Drop.
type Priority int

const (
	Fetch Priority = iota
	Later
	Drop
)

// PriorityFunc is the closure the gossip layer re-requests periodically
// and calls once per candidate id it is deciding whether to fetch.
type PriorityFunc func(IngressMessageId) Priority

// priorityFn is the struct realisation of the prioritizer closure: a
// snapshot flag taken at production time plus a shared clock handle
// sampled lazily at call time. Modeling it as a struct with a Priority
// method (rather than a bare func literal) keeps the production-time vs.
// call-time timing split directly unit-testable without invoking the
// producer twice.
type priorityFn struct {
	dropAll bool
	clock   clock.Source
	pool    *IngressPool
}

// newPriorityFunc implements PriorityFnAndFilterProducer.GetPriorityFunction.
// If the pool exceeds its admission threshold at production time, the
// returned function is frozen to return Drop for every id for its entire
// lifetime — the gossip layer must request a fresh function to observe a
// drained pool. Otherwise each call samples the clock fresh and compares
// the candidate's expiry against [now, now+MAX_INGRESS_TTL].
func newPriorityFunc(p *IngressPool) PriorityFunc {
	f := &priorityFn{
		dropAll: p.ExceedsThreshold(),
		clock:   p.clock,
		pool:    p,
	}
	return f.Priority
}

func (f *priorityFn) Priority(id IngressMessageId) Priority {
	if f.dropAll {
		return Drop
	}
	now := f.clock.Now()
	maxTTL := time.Duration(DefaultMaxIngressTTL)
	if id.Expiry.Before(now) || id.Expiry.After(now.Add(maxTTL)) {
		return Drop
	}
	return Later
}
