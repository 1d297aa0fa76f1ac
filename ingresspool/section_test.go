// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func newTestSection(t *testing.T) *PoolSection[*UnvalidatedArtifact] {
	t.Helper()
	m := NewMetrics(nil)
	return newPoolSection[*UnvalidatedArtifact](m, sectionUnvalidated)
}

func newUnvalidated(expiry time.Time, payload []byte, arrival time.Time) (IngressMessageId, *UnvalidatedArtifact) {
	contentHash := ids.GenerateTestID()
	header := IngressMessageHeader{Expiry: expiry}
	obj := NewIngressPoolObject(payload, header, contentHash)
	id := obj.MessageId()
	return id, &UnvalidatedArtifact{
		Message:   obj,
		PeerID:    ids.GenerateTestNodeID(),
		Timestamp: arrival,
	}
}

func TestPoolSectionInsertAndExists(t *testing.T) {
	s := newTestSection(t)
	now := time.Now()
	id, artifact := newUnvalidated(now.Add(time.Minute), []byte("hello"), now)

	require.False(t, s.Contains(id))
	s.Insert(id, artifact)
	require.True(t, s.Contains(id))
	require.Equal(t, 1, s.Size())
	require.Equal(t, len("hello"), s.ByteSize())
}

func TestPoolSectionNotExists(t *testing.T) {
	s := newTestSection(t)
	id, _ := newUnvalidated(time.Now().Add(time.Minute), []byte("x"), time.Now())
	require.False(t, s.Contains(id))
	_, ok := s.Get(id)
	require.False(t, ok)
}

func TestPoolSectionInsertDuplicateReplacesByteSize(t *testing.T) {
	s := newTestSection(t)
	now := time.Now()
	expiry := now.Add(time.Minute)
	contentHash := ids.GenerateTestID()
	header := IngressMessageHeader{Expiry: expiry}

	obj1 := NewIngressPoolObject([]byte("short"), header, contentHash)
	id := obj1.MessageId()
	s.Insert(id, &UnvalidatedArtifact{Message: obj1, Timestamp: now})
	require.Equal(t, len("short"), s.ByteSize())

	obj2 := NewIngressPoolObject([]byte("a much longer payload"), header, contentHash)
	s.Insert(id, &UnvalidatedArtifact{Message: obj2, Timestamp: now})
	require.Equal(t, 1, s.Size())
	require.Equal(t, len("a much longer payload"), s.ByteSize())
}

func TestPoolSectionInsertRemove(t *testing.T) {
	s := newTestSection(t)
	now := time.Now()
	id, artifact := newUnvalidated(now.Add(time.Minute), []byte("payload"), now)

	s.Insert(id, artifact)
	removed, ok := s.Remove(id)
	require.True(t, ok)
	require.Equal(t, artifact, removed)
	require.False(t, s.Contains(id))
	require.Equal(t, 0, s.Size())
	require.Equal(t, 0, s.ByteSize())

	_, ok = s.Remove(id)
	require.False(t, ok)
}

func TestPoolSectionRangeByExpiry(t *testing.T) {
	s := newTestSection(t)
	base := time.Now().Truncate(time.Second)

	var ids1 []IngressMessageId
	for i := 0; i < 5; i++ {
		id, artifact := newUnvalidated(base.Add(time.Duration(i)*time.Minute), []byte("m"), base)
		s.Insert(id, artifact)
		ids1 = append(ids1, id)
	}

	got := s.RangeByExpiry(base.Add(time.Minute), base.Add(3*time.Minute))
	require.Len(t, got, 3)
	for _, a := range got {
		require.True(t, !a.Object().MessageId().Less(ids1[1]) && !ids1[3].Less(a.Object().MessageId()))
	}
}

func TestPoolSectionRangeByExpiryEmptyWhenHiBeforeLo(t *testing.T) {
	s := newTestSection(t)
	base := time.Now()
	got := s.RangeByExpiry(base.Add(time.Minute), base)
	require.Empty(t, got)
}

func TestPoolSectionPurgeBelowExpiry(t *testing.T) {
	s := newTestSection(t)
	base := time.Now().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		id, artifact := newUnvalidated(base.Add(time.Duration(i)*time.Minute), []byte("m"), base)
		s.Insert(id, artifact)
	}

	purged := s.PurgeBelowExpiry(base.Add(3 * time.Minute))
	require.Len(t, purged, 3)
	require.Equal(t, 2, s.Size())

	for _, a := range purged {
		require.True(t, a.Object().Header.Expiry.Before(base.Add(3*time.Minute)))
	}
}

func TestPoolSectionPurgeBelowExpiryRecordsSingleOpDurationSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := newPoolSection[*UnvalidatedArtifact](m, sectionUnvalidated)
	base := time.Now().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		id, artifact := newUnvalidated(base.Add(time.Duration(i)*time.Minute), []byte("m"), base)
		s.Insert(id, artifact)
	}

	purged := s.PurgeBelowExpiry(base.Add(3 * time.Minute))
	require.Len(t, purged, 3)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var opDuration *dto.MetricFamily
	for _, mf := range metricFamilies {
		if mf.GetName() == "ingress_pool_op_duration_seconds" {
			opDuration = mf
		}
	}
	require.NotNil(t, opDuration)

	var purgeSampleCount, removeSampleCount uint64
	for _, metric := range opDuration.GetMetric() {
		var op string
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == "op" {
				op = lp.GetValue()
			}
		}
		switch op {
		case opPurgeBelow:
			purgeSampleCount = metric.GetHistogram().GetSampleCount()
		case opRemove:
			removeSampleCount = metric.GetHistogram().GetSampleCount()
		}
	}
	require.Equal(t, uint64(1), purgeSampleCount, "the whole purge must record exactly one op_duration sample")
	require.Zero(t, removeSampleCount, "per-entry deletion inside PurgeBelowExpiry must not also record op_duration{op=remove}")
}

func TestPoolSectionByteSizeStaysConsistentAcrossOps(t *testing.T) {
	s := newTestSection(t)
	base := time.Now()

	var ids1 []IngressMessageId
	total := 0
	for i := 0; i < 10; i++ {
		payload := make([]byte, 10+i)
		id, artifact := newUnvalidated(base.Add(time.Duration(i)*time.Second), payload, base)
		s.Insert(id, artifact)
		ids1 = append(ids1, id)
		total += len(payload)
	}
	require.Equal(t, total, s.ByteSize())

	removed, _ := s.Remove(ids1[0])
	total -= removed.Object().CountBytes()
	require.Equal(t, total, s.ByteSize())

	purged := s.PurgeBelowExpiry(base.Add(5 * time.Second))
	for _, a := range purged {
		total -= a.Object().CountBytes()
	}
	require.Equal(t, total, s.ByteSize())
}
