// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"sync"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ingresspool/ingresspool"
	"github.com/luxfi/ingresspool/ingresspool/clock"
)

func newTestService(t *testing.T) (*IngressService, *clock.Fixed, ids.NodeID) {
	t.Helper()
	fixed := clock.NewFixed(time.Unix(0, 0).UTC())
	self := ids.GenerateTestNodeID()
	pool := ingresspool.New(ingresspool.Config{
		IngressPoolMaxCount:   1_000,
		IngressPoolMaxBytes:   1 << 20,
		NodeID:                self,
		StrictChangeSetFaults: true,
	}, fixed, nil, nil)
	return New(pool), fixed, self
}

func TestIngressServiceInsertAndContains(t *testing.T) {
	svc, clk, self := newTestService(t)
	obj := ingresspool.NewIngressPoolObject([]byte("x"), ingresspool.IngressMessageHeader{Expiry: clk.Now().Add(time.Hour)}, ids.GenerateTestID())
	id := obj.MessageId()

	svc.Insert(ingresspool.UnvalidatedArtifact{Message: obj, PeerID: self, Timestamp: clk.Now()})
	require.True(t, svc.Contains(id))

	svc.RemoveUnvalidated(id)
	require.False(t, svc.Contains(id))
}

func TestIngressServiceConcurrentAccessDoesNotRace(t *testing.T) {
	svc, clk, self := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obj := ingresspool.NewIngressPoolObject([]byte("x"), ingresspool.IngressMessageHeader{Expiry: clk.Now().Add(time.Hour)}, ids.GenerateTestID())
			svc.Insert(ingresspool.UnvalidatedArtifact{Message: obj, PeerID: self, Timestamp: clk.Now()})
			svc.ExceedsThreshold()
			svc.SelectValidated(clk.Now(), clk.Now().Add(2*time.Hour), func(*ingresspool.IngressPoolObject) ingresspool.SelectAction {
				return ingresspool.SkipArtifact
			})
		}(i)
	}
	wg.Wait()
}
