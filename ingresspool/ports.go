// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import "time"

// ports.go defines the exposed contracts collaborators outside this
// package program against, kept narrow and separate from the concrete
// *IngressPool so a hosting service (see the service package) can present
// a synchronized façade implementing the same interfaces.

// MutablePool is the mutation surface gossip and validator collaborators
// drive: unconditional admission of freshly-arrived messages and atomic
// application of validator-produced change sets.
type MutablePool interface {
	Insert(artifact UnvalidatedArtifact)
	RemoveUnvalidated(id IngressMessageId)
	ApplyChanges(changeSet ChangeSet) ChangeResult
}

// ValidatedPoolReader is the pool's read surface: Contains reports presence
// in either section, GetValidatedByIdentifier reads the validated section
// only.
type ValidatedPoolReader interface {
	Contains(id IngressMessageId) bool
	GetValidatedByIdentifier(id IngressMessageId) (*IngressPoolObject, bool)
}

// SelectAction is the verdict a selector callback returns for each
// candidate artifact passed to SelectValidated.
type SelectAction int

const (
	// Select accumulates the candidate into the result.
	Select SelectAction = iota
	// SkipArtifact moves on to the next candidate without accumulating.
	SkipArtifact
	// Abort terminates iteration immediately; no further candidate is
	// visited.
	Abort
)

// SelectorFunc is the block-proposer-supplied callback SelectValidated
// drives in arrival-timestamp order.
type SelectorFunc func(*IngressPoolObject) SelectAction

// IngressPoolSelect is the block-proposer read path: a fairness-ordered,
// caller-filtered scan over the validated section.
type IngressPoolSelect interface {
	SelectValidated(lo, hi time.Time, selector SelectorFunc) []*IngressPoolObject
}

// IngressPoolThrottler is the admission-control capacity check.
type IngressPoolThrottler interface {
	ExceedsThreshold() bool
}

// PriorityFnAndFilterProducer produces a gossip-layer priority function
// bound to the current state of the pool.
type PriorityFnAndFilterProducer interface {
	GetPriorityFunction() PriorityFunc
}
