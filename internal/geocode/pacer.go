package geocode

import (
	"sync"
	"time"
)

// Pacer enforces a minimum gap between the starts of consecutive calls to the
// upstream geocoding service, process-wide. It is a pacing gate, not a token
// bucket: every caller waits until its reserved slot comes up.
//
// The reservation (read last slot, claim the next) happens under one mutex
// because request handlers run on parallel goroutines; the sleep itself
// happens outside the lock.
type Pacer struct {
	mu     sync.Mutex
	minGap time.Duration
	last   time.Time
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewPacer creates a pacing gate with the given minimum inter-call gap.
func NewPacer(minGap time.Duration) *Pacer {
	return &Pacer{
		minGap: minGap,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Wait blocks until at least the configured gap has passed since the
// previously reserved call slot, then claims the next slot.
func (p *Pacer) Wait() {
	p.mu.Lock()
	now := p.now()
	next := p.last.Add(p.minGap)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	if wait := next.Sub(now); wait > 0 {
		p.sleep(wait)
	}
}
