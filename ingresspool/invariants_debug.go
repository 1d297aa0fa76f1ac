//go:build debugpool

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import "fmt"

// debugCheckByteSize recomputes a section's byte total from scratch and
// panics if it disagrees with the cached running total (invariant I1).
// Built only with -tags debugpool: the recount is O(n) and has no place on
// a release path.
func debugCheckByteSize[T Artifact](s *PoolSection[T]) {
	if got, want := s.byteSize, s.byteSizeSlow(); got != want {
		panic(fmt.Sprintf("ingresspool: byte size invariant violated: cached=%d recounted=%d", got, want))
	}
}
