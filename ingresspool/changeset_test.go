// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ingresspool/ingresspool/clock"
)

// P4 advert-iff-own-source.
func TestApplyChangesAdvertOnlyForOwnSource(t *testing.T) {
	self := ids.GenerateTestNodeID()
	other := ids.GenerateTestNodeID()
	pool, clk := newTestPool(t, 100, 1<<20, self)

	objSelf := NewIngressPoolObject([]byte("a"), ingressHeader(1, clk.Now().Add(time.Hour)), ids.GenerateTestID())
	idSelf := objSelf.MessageId()
	pool.Insert(UnvalidatedArtifact{Message: objSelf, PeerID: self, Timestamp: clk.Now()})

	objOther := NewIngressPoolObject([]byte("b"), ingressHeader(2, clk.Now().Add(time.Hour)), ids.GenerateTestID())
	idOther := objOther.MessageId()
	pool.Insert(UnvalidatedArtifact{Message: objOther, PeerID: self, Timestamp: clk.Now()})

	result := pool.ApplyChanges(ChangeSet{
		MoveToValidated(idSelf, self, objSelf.CountBytes(), nil, ids.GenerateTestID()),
		MoveToValidated(idOther, other, objOther.CountBytes(), nil, ids.GenerateTestID()),
	})

	require.Len(t, result.Adverts, 1)
	require.Equal(t, idSelf, result.Adverts[0].ID)
	require.True(t, pool.validated.Contains(idSelf))
	require.True(t, pool.validated.Contains(idOther))
}

func TestApplyChangesRemoveFromValidatedReportsPurge(t *testing.T) {
	self := ids.GenerateTestNodeID()
	pool, clk := newTestPool(t, 100, 1<<20, self)

	obj := NewIngressPoolObject([]byte("a"), ingressHeader(1, clk.Now().Add(time.Hour)), ids.GenerateTestID())
	id := obj.MessageId()
	pool.Insert(UnvalidatedArtifact{Message: obj, PeerID: self, Timestamp: clk.Now()})
	pool.ApplyChanges(ChangeSet{MoveToValidated(id, self, obj.CountBytes(), nil, ids.GenerateTestID())})

	result := pool.ApplyChanges(ChangeSet{RemoveFromValidated(id)})
	require.Equal(t, []IngressMessageId{id}, result.Purged)
	require.False(t, pool.validated.Contains(id))

	result = pool.ApplyChanges(ChangeSet{RemoveFromValidated(id)})
	require.Empty(t, result.Purged)
	require.True(t, result.Changed)
}

func TestApplyChangesEmptySetReportsUnchanged(t *testing.T) {
	self := ids.GenerateTestNodeID()
	pool, _ := newTestPool(t, 100, 1<<20, self)
	result := pool.ApplyChanges(ChangeSet{})
	require.False(t, result.Changed)
	require.Empty(t, result.Adverts)
	require.Empty(t, result.Purged)
}

func TestApplyChangesMoveToValidatedOnAbsentIdPanicsWhenStrict(t *testing.T) {
	self := ids.GenerateTestNodeID()
	pool, clk := newTestPool(t, 100, 1<<20, self)
	absentID := NewIngressMessageId(clk.Now().Add(time.Hour), ids.GenerateTestID())

	require.Panics(t, func() {
		pool.ApplyChanges(ChangeSet{MoveToValidated(absentID, self, 10, nil, ids.GenerateTestID())})
	})
}

func TestApplyChangesMoveToValidatedOnAbsentIdAbortsWhenLenient(t *testing.T) {
	self := ids.GenerateTestNodeID()
	clk := clock.NewFixed(time.Unix(0, 0).UTC())
	pool := New(Config{
		IngressPoolMaxCount:   100,
		IngressPoolMaxBytes:   1 << 20,
		NodeID:                self,
		StrictChangeSetFaults: false,
	}, clk, nil, nil)

	obj := NewIngressPoolObject([]byte("a"), ingressHeader(1, clk.Now().Add(time.Hour)), ids.GenerateTestID())
	id := obj.MessageId()
	pool.Insert(UnvalidatedArtifact{Message: obj, PeerID: self, Timestamp: clk.Now()})

	absentID := NewIngressMessageId(clk.Now().Add(2*time.Hour), ids.GenerateTestID())

	require.NotPanics(t, func() {
		result := pool.ApplyChanges(ChangeSet{
			RemoveFromUnvalidated(id),
			MoveToValidated(absentID, self, 10, nil, ids.GenerateTestID()),
			MoveToValidated(id, self, obj.CountBytes(), nil, ids.GenerateTestID()),
		})
		require.True(t, result.Changed)
		require.Empty(t, result.Adverts, "the aborting action and everything after it must not take effect")
	})
	require.False(t, pool.Contains(id), "the prior RemoveFromUnvalidated action's effect survives the abort")
}
