// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"sort"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/ingresspool/ingresspool/clock"
)

// IngressPool holds one validated and one unvalidated PoolSection and
// exposes the read queries and primitive mutations a collaborator drives
// directly. It is not internally synchronized: a single logical actor owns
// mutation rights (see service.IngressService, which
// wraps an *IngressPool in a sync.RWMutex for hosts that need one).
type IngressPool struct {
	validated   *PoolSection[*ValidatedArtifact]
	unvalidated *PoolSection[*UnvalidatedArtifact]

	nodeID ids.NodeID
	config Config

	clock   clock.Source
	metrics *Metrics
	logger  log.Logger
}

// New constructs an empty IngressPool. metrics may be nil (fresh Metrics
// on a private registry are used); timeSource may be nil (wall-clock time is used); logger may be
// nil (a no-op root logger is used).
func New(config Config, timeSource clock.Source, logger log.Logger, metrics *Metrics) *IngressPool {
	if timeSource == nil {
		timeSource = clock.NewMockable(nil)
	}
	if logger == nil {
		logger = log.Root()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &IngressPool{
		validated:   newPoolSection[*ValidatedArtifact](metrics, sectionValidated),
		unvalidated: newPoolSection[*UnvalidatedArtifact](metrics, sectionUnvalidated),
		nodeID:      config.NodeID,
		config:      config,
		clock:       timeSource,
		metrics:     metrics,
		logger:      logger,
	}
}

// Insert unconditionally admits artifact into the unvalidated section.
// The caller stamps artifact.Timestamp (the local wall-clock at arrival)
// before calling Insert; the pool does not impose its own clock here. No
// priority or capacity check happens in Insert: admission control is the
// gossip layer's job via the Prioritizer and Throttler.
func (p *IngressPool) Insert(artifact UnvalidatedArtifact) {
	p.unvalidated.Insert(artifact.Message.MessageId(), &artifact)
}

// RemoveUnvalidated is the convenience path for gossip-layer retractions:
// best-effort, absence is not an error.
func (p *IngressPool) RemoveUnvalidated(id IngressMessageId) {
	p.unvalidated.Remove(id)
}

// Contains reports whether id is present in either section.
func (p *IngressPool) Contains(id IngressMessageId) bool {
	return p.unvalidated.Contains(id) || p.validated.Contains(id)
}

// GetValidatedByIdentifier returns the validated artifact's underlying
// object at id, if present.
func (p *IngressPool) GetValidatedByIdentifier(id IngressMessageId) (*IngressPoolObject, bool) {
	artifact, ok := p.validated.Get(id)
	if !ok {
		return nil, false
	}
	return artifact.Object(), true
}

// GetValidatedTimestamp returns the arrival timestamp recorded for the
// validated entry at id, if present. Exposed mainly for tests verifying
// promotion's timestamp carry-over (invariant I4).
func (p *IngressPool) GetValidatedTimestamp(id IngressMessageId) (time.Time, bool) {
	return p.validated.GetTimestamp(id)
}

// GetUnvalidatedTimestamp mirrors GetValidatedTimestamp for the
// unvalidated section.
func (p *IngressPool) GetUnvalidatedTimestamp(id IngressMessageId) (time.Time, bool) {
	return p.unvalidated.GetTimestamp(id)
}

// SelectValidated is the block-proposer read path: it collects every
// validated artifact whose expiry lies in [lo, hi], stably re-sorts that
// collection by arrival timestamp ascending (neutralising any attempt to
// queue-jump via a crafted expiry), then feeds each object in that order to
// selector until selector returns Abort or the collection is exhausted.
func (p *IngressPool) SelectValidated(lo, hi time.Time, selector SelectorFunc) []*IngressPoolObject {
	candidates := p.validated.RangeByExpiry(lo, hi)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ArrivalTimestamp().Before(candidates[j].ArrivalTimestamp())
	})

	var out []*IngressPoolObject
	for _, artifact := range candidates {
		switch selector(artifact.Object()) {
		case Select:
			out = append(out, artifact.Object())
		case SkipArtifact:
			continue
		case Abort:
			return out
		}
	}
	return out
}

// ApplyChanges executes changeSet's actions in order, synchronously and
// non-interruptibly, mutating both sections and accumulating the resulting
// ChangeResult. See changeset.go for the per-action semantics and the
// Config.StrictChangeSetFaults programming-fault policy.
func (p *IngressPool) ApplyChanges(changeSet ChangeSet) ChangeResult {
	return p.applyChanges(changeSet)
}

// ExceedsThreshold implements IngressPoolThrottler: see throttle.go.
func (p *IngressPool) ExceedsThreshold() bool {
	return exceedsThreshold(p)
}

// GetPriorityFunction implements PriorityFnAndFilterProducer: see
// priority.go.
func (p *IngressPool) GetPriorityFunction() PriorityFunc {
	return newPriorityFunc(p)
}

// GetAllValidatedByHeight is an explicit stub mirroring the original's
// get_all_validated_by_filter(&Height): its contract was never clarified
// upstream, so it always returns nil pending that clarification.
func (p *IngressPool) GetAllValidatedByHeight(height uint64) []*IngressPoolObject {
	return nil
}

var (
	_ MutablePool                 = (*IngressPool)(nil)
	_ ValidatedPoolReader         = (*IngressPool)(nil)
	_ IngressPoolSelect           = (*IngressPool)(nil)
	_ IngressPoolThrottler        = (*IngressPool)(nil)
	_ PriorityFnAndFilterProducer = (*IngressPool)(nil)
)
