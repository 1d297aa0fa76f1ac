// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"time"

	"github.com/google/btree"
)

// btreeDegree is the branching factor passed to google/btree. 32 matches
// the library's own documented default for general-purpose workloads.
const btreeDegree = 32

// sectionEntry is the value stored in a PoolSection's underlying btree: the
// composite key alongside its artifact, so the tree's Less function can
// order purely on the key without a second lookup.
type sectionEntry[T Artifact] struct {
	id       IngressMessageId
	artifact T
}

func entryLess[T Artifact](a, b sectionEntry[T]) bool {
	return a.id.Less(b.id)
}

// PoolSection is an ordered container from IngressMessageId to a generic
// artifact type T, maintaining an exact running byte total. It backs both
// the validated and unvalidated halves of an IngressPool (spec.md §4.A).
//
// PoolSection is not internally synchronized; callers serialize access
// exactly as spec.md §5 requires of the pool as a whole.
type PoolSection[T Artifact] struct {
	tree     *btree.BTreeG[sectionEntry[T]]
	byteSize int
	metrics  sectionMetrics
}

// newPoolSection constructs an empty section reporting its metrics under
// the given section label.
func newPoolSection[T Artifact](m *Metrics, section string) *PoolSection[T] {
	return &PoolSection[T]{
		tree:    btree.NewG(btreeDegree, entryLess[T]),
		metrics: m.forSection(section),
	}
}

// Insert adds or replaces the artifact at id. If an entry already existed
// at id, its byte contribution is subtracted before the new one is added
// (a silent upsert; spec.md §4.A's duplicate-insert rule) and a duplicate
// metric observation is recorded.
func (s *PoolSection[T]) Insert(id IngressMessageId, artifact T) {
	start := time.Now()
	defer s.metrics.observeDuration(opInsert, start)

	newSize := artifact.Object().CountBytes()
	s.metrics.observeInsert(newSize)

	prev, existed := s.tree.ReplaceOrInsert(sectionEntry[T]{id: id, artifact: artifact})
	if existed {
		prevSize := prev.artifact.Object().CountBytes()
		s.byteSize -= prevSize
		s.metrics.observeDuplicate(prevSize)
	}
	s.byteSize += newSize
	debugCheckByteSize(s)
}

// Remove removes and returns the artifact at id, if present. Absence is
// not an error: ok is false and the zero value of T is returned.
func (s *PoolSection[T]) Remove(id IngressMessageId) (artifact T, ok bool) {
	start := time.Now()
	defer s.metrics.observeDuration(opRemove, start)

	removed, existed := s.tree.Delete(sectionEntry[T]{id: id})
	if !existed {
		return artifact, false
	}
	size := removed.artifact.Object().CountBytes()
	s.byteSize -= size
	s.metrics.observeRemove(size)
	debugCheckByteSize(s)
	return removed.artifact, true
}

// Contains reports whether id is present in the section.
func (s *PoolSection[T]) Contains(id IngressMessageId) bool {
	start := time.Now()
	defer s.metrics.observeDuration(opExists, start)
	return s.tree.Has(sectionEntry[T]{id: id})
}

// Get returns the artifact at id, if present.
func (s *PoolSection[T]) Get(id IngressMessageId) (artifact T, ok bool) {
	entry, existed := s.tree.Get(sectionEntry[T]{id: id})
	if !existed {
		return artifact, false
	}
	return entry.artifact, true
}

// GetTimestamp returns the arrival timestamp of the artifact at id, if
// present.
func (s *PoolSection[T]) GetTimestamp(id IngressMessageId) (time.Time, bool) {
	artifact, ok := s.Get(id)
	if !ok {
		return time.Time{}, false
	}
	return artifact.ArrivalTimestamp(), true
}

// RangeByExpiry returns, in ascending IngressMessageId order, every
// artifact whose expiry lies in [lo, hi]. If hi is before lo, it returns
// an empty slice without touching the tree, matching spec.md §4.A.
//
// Implemented via the synthetic-key trick spec.md §4.A names: bound the
// scan with (lo, 0...0) and (hi, FF...FF) and walk the tree ascending from
// the lower bound, stopping the first time an entry exceeds the upper
// bound.
func (s *PoolSection[T]) RangeByExpiry(lo, hi time.Time) []T {
	if hi.Before(lo) {
		return nil
	}
	minKey := minIDForExpiry(lo)
	maxKey := maxIDForExpiry(hi)

	var out []T
	s.tree.AscendGreaterOrEqual(sectionEntry[T]{id: minKey}, func(e sectionEntry[T]) bool {
		if maxKey.Less(e.id) {
			return false
		}
		out = append(out, e.artifact)
		return true
	})
	return out
}

// PurgeBelowExpiry removes and returns, in ascending key order, every
// entry whose expiry is strictly less than cutoff (i.e. every key less
// than (cutoff, 0...0)). google/btree has no split_off primitive, so this
// collects the matching keys by ascending from the beginning of the tree
// and stopping at the first non-matching entry, then deletes them
// individually — the iterate-and-remove fallback spec.md §9 names
// explicitly, still O(k) in the number of purged entries.
//
// The whole purge is timed as a single op_duration{op="purge_below"}
// observation, matching the original's per-call timing; the per-entry
// deletions below bypass Remove so they don't also each emit their own
// op_duration{op="remove"} sample.
func (s *PoolSection[T]) PurgeBelowExpiry(cutoff time.Time) []T {
	start := time.Now()
	defer s.metrics.observeDuration(opPurgeBelow, start)

	cutoffKey := minIDForExpiry(cutoff)

	var toRemove []IngressMessageId
	s.tree.Ascend(func(e sectionEntry[T]) bool {
		if !e.id.Less(cutoffKey) {
			return false
		}
		toRemove = append(toRemove, e.id)
		return true
	})

	out := make([]T, 0, len(toRemove))
	for _, id := range toRemove {
		removed, existed := s.tree.Delete(sectionEntry[T]{id: id})
		if !existed {
			continue
		}
		size := removed.artifact.Object().CountBytes()
		s.byteSize -= size
		s.metrics.observeRemove(size)
		out = append(out, removed.artifact)
	}
	debugCheckByteSize(s)
	return out
}

// Size returns the number of entries in the section.
func (s *PoolSection[T]) Size() int {
	return s.tree.Len()
}

// ByteSize returns the cached running total of CountBytes() over every
// entry in the section (invariant I1).
func (s *PoolSection[T]) ByteSize() int {
	return s.byteSize
}

// byteSizeSlow recomputes the byte total by summing every entry, for use
// only by the debug-build invariant check (never on the release path).
func (s *PoolSection[T]) byteSizeSlow() int {
	total := 0
	s.tree.Ascend(func(e sectionEntry[T]) bool {
		total += e.artifact.Object().CountBytes()
		return true
	})
	return total
}
