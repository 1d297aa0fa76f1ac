// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"fmt"
	"time"

	"github.com/luxfi/ids"
)

// Advert is the compact announcement emitted when this node moves an
// artifact it originated itself into the validated section: a peer-facing
// promise that the artifact is now available on request.
type Advert struct {
	ID            IngressMessageId
	Size          int
	Attribute     []byte
	IntegrityHash ids.ID
}

// ChangeActionKind discriminates the variants of ChangeAction.
type ChangeActionKind int

const (
	// ActionMoveToValidated removes an entry from unvalidated and inserts
	// the equivalent entry into validated, preserving its timestamp.
	ActionMoveToValidated ChangeActionKind = iota
	// ActionRemoveFromUnvalidated best-effort removes an unvalidated entry.
	ActionRemoveFromUnvalidated
	// ActionRemoveFromValidated removes a validated entry, reporting it if
	// present.
	ActionRemoveFromValidated
	// ActionPurgeBelowExpiry purges both sections below a cutoff expiry.
	ActionPurgeBelowExpiry
)

// ChangeAction is one step of a ChangeSet. Only the fields relevant to Kind
// are meaningful; see the doc comments on the constructors MoveToValidated,
// RemoveFromUnvalidated, RemoveFromValidated and PurgeBelowExpiryAction.
type ChangeAction struct {
	Kind ChangeActionKind

	ID            IngressMessageId
	SourceNode    ids.NodeID
	Size          int
	Attribute     []byte
	IntegrityHash ids.ID

	Cutoff time.Time
}

// MoveToValidated builds the action that promotes id from unvalidated to
// validated. sourceNode identifies the node that first validated the
// artifact; when it equals the pool's own NodeID, ApplyChanges emits an
// Advert.
func MoveToValidated(id IngressMessageId, sourceNode ids.NodeID, size int, attribute []byte, integrityHash ids.ID) ChangeAction {
	return ChangeAction{
		Kind:          ActionMoveToValidated,
		ID:            id,
		SourceNode:    sourceNode,
		Size:          size,
		Attribute:     attribute,
		IntegrityHash: integrityHash,
	}
}

// RemoveFromUnvalidated builds the action that best-effort removes id from
// the unvalidated section.
func RemoveFromUnvalidated(id IngressMessageId) ChangeAction {
	return ChangeAction{Kind: ActionRemoveFromUnvalidated, ID: id}
}

// RemoveFromValidated builds the action that removes id from the validated
// section, reporting it in ChangeResult.Purged if present.
func RemoveFromValidated(id IngressMessageId) ChangeAction {
	return ChangeAction{Kind: ActionRemoveFromValidated, ID: id}
}

// PurgeBelowExpiryAction builds the action that purges both sections of
// every entry whose expiry is strictly less than cutoff.
func PurgeBelowExpiryAction(cutoff time.Time) ChangeAction {
	return ChangeAction{Kind: ActionPurgeBelowExpiry, Cutoff: cutoff}
}

// ChangeSet is an ordered batch of state-transition commands produced by
// the external validator and applied atomically by ApplyChanges.
type ChangeSet []ChangeAction

// ChangeResult reports the outcome of applying a ChangeSet: adverts for
// self-originated promotions, ids purged from the validated section, and
// whether the set was non-empty.
type ChangeResult struct {
	Adverts []Advert
	Purged  []IngressMessageId
	Changed bool
}

// errStrictChangeSetFault is the panic value used when Config.StrictChangeSetFaults
// is true and a MoveToValidated action names an id no longer present in
// unvalidated. It is typed so a caller that recovers can identify it.
type errStrictChangeSetFault struct {
	id IngressMessageId
}

func (e errStrictChangeSetFault) Error() string {
	return fmt.Sprintf("ingresspool: MoveToValidated references absent unvalidated entry %v: validator and pool are out of sync", e.id)
}

// applyChanges is IngressPool's ChangeSet interpreter: see ApplyChanges for
// the exported entry point and pool.go's struct definition for the section
// fields it mutates.
func (p *IngressPool) applyChanges(changeSet ChangeSet) ChangeResult {
	result := ChangeResult{Changed: len(changeSet) > 0}

	for _, action := range changeSet {
		switch action.Kind {
		case ActionMoveToValidated:
			artifact, ok := p.unvalidated.Remove(action.ID)
			if !ok {
				if p.config.StrictChangeSetFaults {
					panic(errStrictChangeSetFault{id: action.ID})
				}
				p.logger.Error("ingress pool: MoveToValidated references absent unvalidated entry; aborting change set", "id", action.ID)
				return result
			}
			p.validated.Insert(action.ID, &ValidatedArtifact{
				Message:   artifact.Message,
				Timestamp: artifact.Timestamp,
			})
			if action.SourceNode == p.nodeID {
				result.Adverts = append(result.Adverts, Advert{
					ID:            action.ID,
					Size:          action.Size,
					Attribute:     action.Attribute,
					IntegrityHash: action.IntegrityHash,
				})
			}

		case ActionRemoveFromUnvalidated:
			if _, ok := p.unvalidated.Remove(action.ID); !ok {
				p.logger.Debug("ingress pool: attempted to remove non-existent unvalidated entry", "id", action.ID)
			}

		case ActionRemoveFromValidated:
			if _, ok := p.validated.Remove(action.ID); ok {
				result.Purged = append(result.Purged, action.ID)
			} else {
				p.logger.Debug("ingress pool: attempted to remove non-existent validated entry", "id", action.ID)
			}

		case ActionPurgeBelowExpiry:
			for _, artifact := range p.validated.PurgeBelowExpiry(action.Cutoff) {
				result.Purged = append(result.Purged, artifact.Object().MessageId())
			}
			p.unvalidated.PurgeBelowExpiry(action.Cutoff)
		}
	}

	return result
}
