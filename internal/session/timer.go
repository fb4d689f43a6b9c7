package session

import (
	"fmt"
	"time"
)

// timer accumulates practice time across pauses.
type timer struct {
	base      time.Duration
	startedAt time.Time
	running   bool
}

func (t *timer) start(now time.Time) {
	if t.running {
		return
	}
	t.startedAt = now
	t.running = true
}

func (t *timer) stop(now time.Time) {
	if !t.running {
		return
	}
	t.base += now.Sub(t.startedAt)
	t.running = false
}

func (t *timer) elapsed(now time.Time) time.Duration {
	if !t.running {
		return t.base
	}
	return t.base + now.Sub(t.startedAt)
}

// Elapsed returns the total practice time including earlier sessions.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.elapsed(s.clock.Now())
}

// TimerRunning reports whether practice time is accumulating.
func (s *Session) TimerRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.running
}

// ToggleTimer pauses a running timer or resumes a paused one.
func (s *Session) ToggleTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if s.timer.running {
		s.timer.stop(now)
	} else {
		s.timer.start(now)
	}
	return s.timer.running
}

// Remaining returns the time left against the question's average time.
// It is negative once the average is exceeded and zero when no average is set.
func (s *Session) Remaining() time.Duration {
	budget := time.Duration(s.question.AverageTimeMin) * time.Minute
	if budget == 0 {
		return 0
	}
	return budget - s.Elapsed()
}

// OverTime reports whether elapsed time exceeds the question's average time.
func (s *Session) OverTime() bool {
	return s.question.AverageTimeMin > 0 && s.Remaining() < 0
}

// FormatClock renders d as MM:SS, prefixed with "-" when negative.
func FormatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}
