//go:build !debugpool

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

// debugCheckByteSize is a no-op on the release path; see
// invariants_debug.go for the -tags debugpool recount.
func debugCheckByteSize[T Artifact](s *PoolSection[T]) {}
