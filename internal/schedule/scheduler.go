package schedule

import (
	"sync"
	"time"
)

// Tier classifies a market's polling cadence.
type Tier int

const (
	// TierFar polls at the slow cadence while kickoff is distant.
	TierFar Tier = iota
	// TierNear polls at the fast cadence inside the pre-game window.
	TierNear
	// TierStopped polls never; the game has started. Terminal.
	TierStopped
)

func (t Tier) String() string {
	switch t {
	case TierFar:
		return "far"
	case TierNear:
		return "near"
	case TierStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Scheduler tracks per-market poll state and answers due-ness queries.
// Safe for concurrent use.
type Scheduler struct {
	farInterval   time.Duration
	nearInterval  time.Duration
	nearThreshold time.Duration
	clock         Clock

	mu     sync.Mutex
	states map[string]*pollState
}

type pollState struct {
	lastPolled time.Time // zero until the first successful poll
	stopped    bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the scheduler's time source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// New creates a Scheduler with the given cadences.
func New(farInterval, nearInterval, nearThreshold time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		farInterval:   farInterval,
		nearInterval:  nearInterval,
		nearThreshold: nearThreshold,
		clock:         time.Now,
		states:        make(map[string]*pollState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tier returns the market's current tier given its game start time.
// Once a market is observed at or past its start it is stopped for good,
// even if a later evaluation sees an earlier clock.
func (s *Scheduler) Tier(ticker string, start time.Time) Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tierLocked(ticker, start)
}

func (s *Scheduler) tierLocked(ticker string, start time.Time) Tier {
	st := s.state(ticker)
	if st.stopped {
		return TierStopped
	}

	now := s.clock()
	if !now.Before(start) {
		st.stopped = true
		return TierStopped
	}
	// Inclusive boundary: exactly at the threshold counts as near.
	if start.Sub(now) <= s.nearThreshold {
		return TierNear
	}
	return TierFar
}

// Due reports whether the market should be polled now. A market is due on
// its first evaluation and again once its tier's interval has elapsed
// since the last successful poll. Stopped markets are never due.
func (s *Scheduler) Due(ticker string, start time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tier := s.tierLocked(ticker, start)
	if tier == TierStopped {
		return false
	}

	st := s.state(ticker)
	if st.lastPolled.IsZero() {
		return true
	}

	interval := s.farInterval
	if tier == TierNear {
		interval = s.nearInterval
	}
	return s.clock().Sub(st.lastPolled) >= interval
}

// MarkPolled records a successful poll. Failed polls are not recorded so
// the market stays due and is retried on the next pass.
func (s *Scheduler) MarkPolled(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(ticker).lastPolled = s.clock()
}

// Stopped reports whether the market has reached its terminal state.
func (s *Scheduler) Stopped(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[ticker]
	return ok && st.stopped
}

func (s *Scheduler) state(ticker string) *pollState {
	st, ok := s.states[ticker]
	if !ok {
		st = &pollState{}
		s.states[ticker] = st
	}
	return st
}
