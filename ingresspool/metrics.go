// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// section names used as Prometheus label values, matching spec.md §6's
// per-section metric naming.
const (
	sectionValidated   = "validated"
	sectionUnvalidated = "unvalidated"
)

// operation names used as Prometheus label values for the op_duration
// histogram, matching spec.md §6 exactly: insert, remove, exists,
// purge_below.
const (
	opInsert     = "insert"
	opRemove     = "remove"
	opExists     = "exists"
	opPurgeBelow = "purge_below"
)

// Metrics is the set of Prometheus collectors the pool registers on
// construction, mirroring the teacher's metrics_adapter.go wrapping of a
// *prometheus.Registry and the original's PoolMetrics (op-duration and
// byte-accounting histograms, one throttled counter).
type Metrics struct {
	throttled      prometheus.Counter
	opDuration     *prometheus.HistogramVec
	insertBytes    *prometheus.HistogramVec
	removeBytes    *prometheus.HistogramVec
	duplicateBytes *prometheus.HistogramVec
}

// NewMetrics builds and registers the pool's Prometheus collectors against
// reg. reg may be nil, in which case a private, unregistered registry is
// used so the pool always has working collectors even when the caller has
// no interest in exporting them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingress_messages_throttled",
			Help: "Number of times the ingress pool reported exceeding its admission threshold.",
		}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "ingress_pool_op_duration_seconds",
			Help: "Duration of ingress pool section operations.",
		}, []string{"section", "op"}),
		insertBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ingress_pool_insert_bytes",
			Help:    "Byte size of artifacts inserted into an ingress pool section.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"section"}),
		removeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ingress_pool_remove_bytes",
			Help:    "Byte size of artifacts removed from an ingress pool section.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"section"}),
		duplicateBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ingress_pool_duplicate_bytes",
			Help:    "Byte size of the previous value displaced by a duplicate insert.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"section"}),
	}
	reg.MustRegister(m.throttled, m.opDuration, m.insertBytes, m.removeBytes, m.duplicateBytes)
	return m
}

// sectionMetrics is the narrow view of Metrics a single PoolSection needs,
// pre-bound to its section label so call sites never risk mislabeling.
type sectionMetrics struct {
	section string
	m       *Metrics
}

func (m *Metrics) forSection(section string) sectionMetrics {
	return sectionMetrics{section: section, m: m}
}

func (sm sectionMetrics) observeDuration(op string, start time.Time) {
	sm.m.opDuration.WithLabelValues(sm.section, op).Observe(time.Since(start).Seconds())
}

func (sm sectionMetrics) observeInsert(bytes int) {
	sm.m.insertBytes.WithLabelValues(sm.section).Observe(float64(bytes))
}

func (sm sectionMetrics) observeRemove(bytes int) {
	sm.m.removeBytes.WithLabelValues(sm.section).Observe(float64(bytes))
}

func (sm sectionMetrics) observeDuplicate(bytes int) {
	sm.m.duplicateBytes.WithLabelValues(sm.section).Observe(float64(bytes))
}

func (m *Metrics) incThrottled() {
	m.throttled.Inc()
}
