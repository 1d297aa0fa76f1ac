// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package service hosts an ingress pool behind the read/write lock spec.md
// §5 requires an external actor to provide, the way the teacher's
// core/txpool.TxPool guards its subpool state with a sync.RWMutex.
package service

import (
	"sync"
	"time"

	"github.com/luxfi/ingresspool/ingresspool"
)

// IngressService wraps a *ingresspool.IngressPool and serializes access to
// it: writers take the write lock, readers take the read lock, giving
// callers the single-actor discipline the core pool itself assumes but
// does not enforce.
type IngressService struct {
	mu   sync.RWMutex
	pool *ingresspool.IngressPool
}

// New wraps pool in an IngressService.
func New(pool *ingresspool.IngressPool) *IngressService {
	return &IngressService{pool: pool}
}

// Insert takes the write lock and admits artifact into the unvalidated
// section.
func (s *IngressService) Insert(artifact ingresspool.UnvalidatedArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Insert(artifact)
}

// RemoveUnvalidated takes the write lock and removes id from the
// unvalidated section, if present.
func (s *IngressService) RemoveUnvalidated(id ingresspool.IngressMessageId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.RemoveUnvalidated(id)
}

// ApplyChanges takes the write lock and applies changeSet atomically.
func (s *IngressService) ApplyChanges(changeSet ingresspool.ChangeSet) ingresspool.ChangeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.ApplyChanges(changeSet)
}

// Contains takes the read lock and reports whether id is present in
// either section.
func (s *IngressService) Contains(id ingresspool.IngressMessageId) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool.Contains(id)
}

// GetValidated takes the read lock and returns the validated object at id,
// if present.
func (s *IngressService) GetValidated(id ingresspool.IngressMessageId) (*ingresspool.IngressPoolObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool.GetValidatedByIdentifier(id)
}

// SelectValidated takes the read lock for the duration of the scan and
// selector invocation, giving the caller a consistent snapshot.
func (s *IngressService) SelectValidated(lo, hi time.Time, selector ingresspool.SelectorFunc) []*ingresspool.IngressPoolObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool.SelectValidated(lo, hi, selector)
}

// ExceedsThreshold takes the read lock and reports the pool's current
// capacity state.
func (s *IngressService) ExceedsThreshold() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool.ExceedsThreshold()
}

// GetPriorityFunction takes the read lock only long enough to produce the
// priority function; the returned function itself is safe to call without
// holding any lock, since it only reads its own frozen snapshot and an
// independent clock.
func (s *IngressService) GetPriorityFunction() ingresspool.PriorityFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool.GetPriorityFunction()
}

var (
	_ ingresspool.MutablePool                 = (*IngressService)(nil)
	_ ingresspool.IngressPoolThrottler         = (*IngressService)(nil)
	_ ingresspool.PriorityFnAndFilterProducer = (*IngressService)(nil)
)
