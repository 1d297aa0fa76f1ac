// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gossip provides supporting infrastructure around the ingress
// pool's ChangeResult.Adverts output: bounded, peer-aware dedup so a
// gossip loop calling the pool repeatedly does not re-announce the same
// message id to a peer it has already told.
package gossip

import (
	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/luxfi/ids"
	"github.com/luxfi/ingresspool/ingresspool"
)

// defaultTrackedIDs bounds the number of distinct message ids the tracker
// remembers peer-advertisement state for; beyond this, the least recently
// used id's peer set is evicted, matching how expiry already bounds the
// pool's own memory and this only needs to bound a secondary, shorter-lived
// cache.
const defaultTrackedIDs = 65_536

// PeerAdvertTracker records, per message id, which peers have already
// received an advert for it, so a caller can skip re-announcing. It does
// not know about expiry; capacity is what keeps memory bounded.
type PeerAdvertTracker struct {
	seen *lru.Cache // ids.ID -> mapset.Set[ids.NodeID]
}

// NewPeerAdvertTracker constructs a tracker bounded to at most capacity
// distinct message ids. capacity <= 0 uses defaultTrackedIDs.
func NewPeerAdvertTracker(capacity int) (*PeerAdvertTracker, error) {
	if capacity <= 0 {
		capacity = defaultTrackedIDs
	}
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &PeerAdvertTracker{seen: cache}, nil
}

// ShouldAdvertise reports whether peer has not yet been told about advert,
// and if so records that it now has. Call once per (advert, peer) pair
// immediately before sending the advert; a false result means skip
// sending.
func (t *PeerAdvertTracker) ShouldAdvertise(advert ingresspool.Advert, peer ids.NodeID) bool {
	return t.shouldAdvertiseID(advert.ID.ContentHash, peer)
}

func (t *PeerAdvertTracker) shouldAdvertiseID(contentHash ids.ID, peer ids.NodeID) bool {
	raw, ok := t.seen.Get(contentHash)
	var peers mapset.Set[ids.NodeID]
	if ok {
		peers = raw.(mapset.Set[ids.NodeID])
		if peers.Contains(peer) {
			return false
		}
	} else {
		peers = mapset.NewThreadUnsafeSet[ids.NodeID]()
	}
	peers.Add(peer)
	t.seen.Add(contentHash, peers)
	return true
}

// Forget evicts any tracked peer-advertisement state for id, e.g. once the
// pool reports it purged.
func (t *PeerAdvertTracker) Forget(id ingresspool.IngressMessageId) {
	t.seen.Remove(id.ContentHash)
}

// Len returns the number of distinct message ids currently tracked.
func (t *PeerAdvertTracker) Len() int {
	return t.seen.Len()
}
