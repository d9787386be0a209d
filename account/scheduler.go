package account

import (
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Re-registration retry intervals. The first retry after a failure happens
// sooner than the following ones.
const (
	registrationFirstRetryInterval = 60 * time.Second
	registrationRetryInterval      = 300 * time.Second
)

// reregScheduler arms a single jittered retry timer per account.
// At most one timer is pending at any time; the fire callback checks the
// active flag so a timer racing with cancellation becomes a no-op.
type reregScheduler struct {
	clk clock.Clock
	rnd *rand.Rand
	// fire re-enters the registration send path; invoked without the
	// scheduler lock held.
	fire func()
	// canSchedule gates scheduling on the account being usable.
	canSchedule func() bool

	mu       sync.Mutex
	active   bool
	attempts int
	timer    *clock.Timer
}

func newReregScheduler(clk clock.Clock, seed int64, canSchedule func() bool, fire func()) *reregScheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &reregScheduler{
		clk:         clk,
		rnd:         rand.New(rand.NewSource(seed)), //nolint:gosec
		fire:        fire,
		canSchedule: canSchedule,
	}
}

// schedule arms the retry timer, replacing any pending one. It is a no-op
// while the account cannot register.
func (s *reregScheduler) schedule() {
	if !s.canSchedule() {
		return
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.active = true

	base := registrationFirstRetryInterval
	if s.attempts > 0 {
		base = registrationRetryInterval
	}
	delay := jitterDelay(base, s.rnd)

	s.timer = s.clk.AfterFunc(delay, s.onTimer)
	s.mu.Unlock()
}

func (s *reregScheduler) onTimer() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.attempts++
	s.mu.Unlock()

	s.fire()
}

// cancel disarms the pending timer, keeping the attempt counter.
func (s *reregScheduler) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// reset disarms the timer and zeroes the attempt counter. Invoked on
// successful registration, explicit unregister and account teardown.
func (s *reregScheduler) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.attempts = 0
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *reregScheduler) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// jitterDelay randomizes the retry delay by +/- 10 seconds: bases of at
// least 10s get a uniform [-10000ms, +10000ms] component on top of the
// whole-second base, shorter bases collapse to a uniform [0, 10000ms]
// delay. Millisecond overflow is normalized into seconds.
func jitterDelay(base time.Duration, rnd *rand.Rand) time.Duration {
	sec := int64(base / time.Second)
	var msec int64
	if sec >= 10 {
		msec = rnd.Int63n(20001) - 10000
	} else {
		sec = 0
		msec = rnd.Int63n(10001)
	}

	sec += msec / 1000
	msec %= 1000
	if msec < 0 {
		msec += 1000
		sec--
	}

	return time.Duration(sec)*time.Second + time.Duration(msec)*time.Millisecond
}
