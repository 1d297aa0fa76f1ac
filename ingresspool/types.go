// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ingresspool implements the per-node ingress message pool: the
// mempool a replicated consensus node uses to buffer user-submitted
// ingress messages between arrival and either inclusion in a block or
// discard.
package ingresspool

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/luxfi/ids"
)

// expectedContentHashLength is the fixed byte length of an ingress message's
// content hash, matching ids.ID's width.
const expectedContentHashLength = ids.IDLen

// IngressMessageId is the composite key identifying an ingress message:
// (expiry, content hash), ordered expiry-major then content-hash
// lexicographic. Two messages with an identical key are duplicates.
type IngressMessageId struct {
	Expiry      time.Time
	ContentHash ids.ID
}

// NewIngressMessageId builds an IngressMessageId from an expiry and content
// hash.
func NewIngressMessageId(expiry time.Time, contentHash ids.ID) IngressMessageId {
	return IngressMessageId{Expiry: expiry.UTC(), ContentHash: contentHash}
}

// Less reports whether id sorts strictly before other: expiry first, then
// content hash, lexicographically.
func (id IngressMessageId) Less(other IngressMessageId) bool {
	if !id.Expiry.Equal(other.Expiry) {
		return id.Expiry.Before(other.Expiry)
	}
	return bytes.Compare(id.ContentHash[:], other.ContentHash[:]) < 0
}

// Equal reports whether id and other identify the same message.
func (id IngressMessageId) Equal(other IngressMessageId) bool {
	return id.Expiry.Equal(other.Expiry) && id.ContentHash == other.ContentHash
}

// minIDForExpiry and maxIDForExpiry build the synthetic keys used to bound a
// range scan over a single expiry instant: (expiry, 0...0) and
// (expiry, FF...FF) respectively.
func minIDForExpiry(expiry time.Time) IngressMessageId {
	return IngressMessageId{Expiry: expiry.UTC()}
}

func maxIDForExpiry(expiry time.Time) IngressMessageId {
	var max ids.ID
	for i := range max {
		max[i] = 0xff
	}
	return IngressMessageId{Expiry: expiry.UTC(), ContentHash: max}
}

// MarshalBinary encodes the id as big-endian unsigned nanoseconds since the
// Unix epoch followed by the raw content hash bytes, matching the
// expiry-major lexicographic wire ordering collaborating nodes must agree
// on.
func (id IngressMessageId) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+expectedContentHashLength)
	binary.BigEndian.PutUint64(buf[:8], uint64(id.Expiry.UnixNano()))
	copy(buf[8:], id.ContentHash[:])
	return buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (id *IngressMessageId) UnmarshalBinary(data []byte) error {
	if len(data) != 8+expectedContentHashLength {
		return errInvalidWireLength
	}
	nanos := binary.BigEndian.Uint64(data[:8])
	id.Expiry = time.Unix(0, int64(nanos)).UTC()
	copy(id.ContentHash[:], data[8:])
	return nil
}

// IngressMessageHeader is the subset of a signed ingress message's fields
// the pool needs without inspecting its cryptographic envelope: when it
// expires, and a caller-supplied nonce for disambiguation in tests and
// tooling.
type IngressMessageHeader struct {
	Nonce  uint64
	Expiry time.Time
}

// IngressPoolObject is the wire message plus derived metadata the pool
// keeps around: the opaque signed bytes, the parsed header, the content
// hash identity, and a memoized byte size.
type IngressPoolObject struct {
	SignedIngress []byte
	Header        IngressMessageHeader
	MessageID     ids.ID
	byteSize      int
}

// NewIngressPoolObject wraps raw signed-ingress bytes together with their
// parsed header and content hash. byteSize is memoized at construction so
// later accounting never re-measures the payload.
func NewIngressPoolObject(raw []byte, header IngressMessageHeader, messageID ids.ID) IngressPoolObject {
	return IngressPoolObject{
		SignedIngress: raw,
		Header:        header,
		MessageID:     messageID,
		byteSize:      len(raw),
	}
}

// CountBytes returns the memoized byte size of the underlying signed
// ingress payload.
func (o *IngressPoolObject) CountBytes() int {
	return o.byteSize
}

// MessageId derives this object's composite pool key.
func (o *IngressPoolObject) MessageId() IngressMessageId {
	return NewIngressMessageId(o.Header.Expiry, o.MessageID)
}

// Artifact is the capability every pool section payload must expose: a
// view onto the underlying IngressPoolObject and the local arrival
// timestamp used for fairness ordering in SelectValidated.
type Artifact interface {
	Object() *IngressPoolObject
	ArrivalTimestamp() time.Time
}

// UnvalidatedArtifact is a message that has arrived from a peer or client
// but has not yet passed the external validator.
type UnvalidatedArtifact struct {
	Message   IngressPoolObject
	PeerID    ids.NodeID
	Timestamp time.Time
}

func (a *UnvalidatedArtifact) Object() *IngressPoolObject  { return &a.Message }
func (a *UnvalidatedArtifact) ArrivalTimestamp() time.Time { return a.Timestamp }

// ValidatedArtifact is a message the external validator has accepted. Its
// Timestamp is carried over verbatim from the UnvalidatedArtifact it was
// promoted from (invariant I4).
type ValidatedArtifact struct {
	Message   IngressPoolObject
	Timestamp time.Time
}

func (a *ValidatedArtifact) Object() *IngressPoolObject  { return &a.Message }
func (a *ValidatedArtifact) ArrivalTimestamp() time.Time { return a.Timestamp }

var _ Artifact = (*UnvalidatedArtifact)(nil)
var _ Artifact = (*ValidatedArtifact)(nil)
