package server

import (
	"sync"
	"time"
)

// Tick is delivered to a GameSession by its scheduler. Gen identifies
// the Arm call that produced it.
type Tick struct {
	Gen uint64
}

// TickScheduler keeps at most one ticker alive. Ticks from a cancelled
// ticker may already sit in the channel, so receivers compare Gen
// against Current before acting on them.
type TickScheduler struct {
	mu     sync.Mutex
	ticks  chan<- Tick
	gen    uint64
	stop   chan struct{}
	ticker *time.Ticker
}

func NewTickScheduler(ticks chan<- Tick) *TickScheduler {
	return &TickScheduler{ticks: ticks}
}

func (s *TickScheduler) Arm(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.gen++
	s.stop = make(chan struct{})
	s.ticker = time.NewTicker(interval)
	go loopTicker(s.ticker, s.stop, s.ticks, s.gen)
}

func (s *TickScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.gen++
}

// Current returns the generation of the armed ticker.
func (s *TickScheduler) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *TickScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticker != nil
}

func (s *TickScheduler) cancel() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.stop = nil
}

func loopTicker(t *time.Ticker, stop <-chan struct{}, ticks chan<- Tick, gen uint64) {
	for {
		select {
		case <-t.C:
			select {
			case ticks <- Tick{Gen: gen}:
			case <-stop:
				return
			}
		case <-stop:
			return
		}
	}
}
