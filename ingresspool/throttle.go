// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

// exceedsThreshold implements IngressPoolThrottler.ExceedsThreshold: true
// iff the combined entry count across both sections has reached
// Config.IngressPoolMaxCount, or the combined byte total has reached
// Config.IngressPoolMaxBytes. Every true evaluation increments the
// ingress_messages_throttled counter.
func exceedsThreshold(p *IngressPool) bool {
	count := p.validated.Size() + p.unvalidated.Size()
	bytes := p.validated.ByteSize() + p.unvalidated.ByteSize()

	exceeds := count >= p.config.IngressPoolMaxCount || bytes >= p.config.IngressPoolMaxBytes
	if exceeds {
		p.metrics.incThrottled()
	}
	return exceeds
}
