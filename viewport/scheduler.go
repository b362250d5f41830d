package viewport

import (
	"context"
	"sync"
	"time"
)

// Scheduler coalesces redraw requests so at most one draw runs per tick.
// Request may be called from any goroutine.
type Scheduler struct {
	mu      sync.Mutex
	pending bool
	stats   SchedulerStats
}

// SchedulerStats counts scheduler activity since creation.
type SchedulerStats struct {
	Requests   uint64
	Superseded uint64
	Draws      uint64
}

// Request schedules one redraw. A request made while another is pending
// replaces it.
func (s *Scheduler) Request() {
	s.mu.Lock()
	s.stats.Requests++
	if s.pending {
		s.stats.Superseded++
	}
	s.pending = true
	s.mu.Unlock()
}

// Pending reports whether a redraw is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs draw once if a redraw is pending and reports whether it did.
// The pending flag is cleared before draw runs, so requests made by draw
// itself schedule the next tick.
func (s *Scheduler) Flush(draw func()) bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	s.pending = false
	s.stats.Draws++
	s.mu.Unlock()

	if draw != nil {
		draw()
	}
	return true
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run flushes on every tick of interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, draw func()) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Flush(draw)
		}
	}
}
