// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import "github.com/luxfi/ids"

// DefaultMaxIngressTTL bounds how far into the future an ingress message's
// expiry may lie and still be worth fetching, per the Prioritizer (§4.E).
const DefaultMaxIngressTTL = 300_000_000_000 // 5 minutes, in time.Duration nanoseconds form.

// Config parameterises an IngressPool: its admission thresholds, the local
// node's identity (used to decide advert emission), and the programming
// fault policy for a malformed ChangeSet.
type Config struct {
	// IngressPoolMaxCount is the combined entry count, across both
	// sections, at or above which Throttler.ExceedsThreshold reports true.
	IngressPoolMaxCount int

	// IngressPoolMaxBytes is the combined byte total, across both
	// sections, at or above which Throttler.ExceedsThreshold reports true.
	IngressPoolMaxBytes int

	// NodeID is this node's identity; MoveToValidated emits an advert only
	// when its source node matches NodeID.
	NodeID ids.NodeID

	// StrictChangeSetFaults controls the response to a MoveToValidated
	// action naming an unvalidated id that is no longer present: the
	// validator and pool have fallen out of sync (spec.md §7's
	// programming-fault case). When true (the default), ApplyChanges
	// panics, matching the original's unreachable!() halt for
	// single-node deployments. When false, the offending action aborts
	// the remainder of the change set, logs at Error, and ApplyChanges
	// returns the result accumulated from the actions applied so far.
	StrictChangeSetFaults bool
}

// DefaultConfig returns a Config with conservative, non-zero thresholds and
// strict fault handling enabled.
func DefaultConfig() Config {
	return Config{
		IngressPoolMaxCount:   100_000,
		IngressPoolMaxBytes:   256 << 20, // 256 MiB
		StrictChangeSetFaults: true,
	}
}
