// Package blinds implements a tournament blind and ante schedule driven by a
// clock.
package blinds

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/dcthang03/hand-counter/internal/game"
)

// Level is one step of the schedule. The last level never expires.
type Level struct {
	Small    int
	Big      int
	Ante     int
	Duration time.Duration
}

// Schedule reports the blinds in force at the current time.
// It is safe for concurrent use.
type Schedule struct {
	clock  quartz.Clock
	levels []Level
	mode   game.AnteMode

	mu      sync.Mutex
	started time.Time
	timer   *quartz.Timer
}

// NewSchedule creates a schedule whose first level starts now.
func NewSchedule(clock quartz.Clock, mode game.AnteMode, levels ...Level) (*Schedule, error) {
	if len(levels) == 0 {
		return nil, errors.New("blind schedule has no levels")
	}
	for i, l := range levels {
		if l.Small < 0 || l.Big < l.Small || l.Ante < 0 {
			return nil, fmt.Errorf("level %d: invalid blinds %d/%d ante %d", i+1, l.Small, l.Big, l.Ante)
		}
		if l.Duration <= 0 && i < len(levels)-1 {
			return nil, fmt.Errorf("level %d: duration must be positive", i+1)
		}
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Schedule{
		clock:   clock,
		levels:  append([]Level(nil), levels...),
		mode:    mode,
		started: clock.Now(),
	}, nil
}

// Fixed returns a single-level schedule.
func Fixed(small, big, ante int, mode game.AnteMode) *Schedule {
	s, err := NewSchedule(quartz.NewReal(), mode, Level{Small: small, Big: big, Ante: ante})
	if err != nil {
		panic(err)
	}
	return s
}

// Restart puts the schedule back on its first level, starting now.
func (s *Schedule) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = s.clock.Now()
}

// Index returns the zero-based level in force.
func (s *Schedule) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, _ := s.locate()
	return idx
}

// Level returns the level in force.
func (s *Schedule) Level() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, _ := s.locate()
	return s.levels[idx]
}

// Current returns the blinds in force as used by a hand.
func (s *Schedule) Current() game.Blinds {
	l := s.Level()
	return game.Blinds{Small: l.Small, Big: l.Big, Ante: l.Ante, Mode: s.mode}
}

// Remaining returns the time left on the current level. It is zero on the
// final level.
func (s *Schedule) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, remaining := s.locate()
	return remaining
}

// locate finds the level in force and the time left on it.
func (s *Schedule) locate() (int, time.Duration) {
	elapsed := s.clock.Since(s.started)
	for i, l := range s.levels[:len(s.levels)-1] {
		if elapsed < l.Duration {
			return i, l.Duration - elapsed
		}
		elapsed -= l.Duration
	}
	return len(s.levels) - 1, 0
}

// OnLevelChange calls fn from a timer goroutine each time a new level
// begins, until stop is called. Only one callback is active at a time.
func (s *Schedule) OnLevelChange(fn func(index int, level Level)) (stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	var arm func()
	arm = func() {
		_, remaining := s.locate()
		if remaining <= 0 {
			s.timer = nil
			return
		}
		s.timer = s.clock.AfterFunc(remaining, func() {
			s.mu.Lock()
			idx, _ := s.locate()
			level := s.levels[idx]
			arm()
			s.mu.Unlock()
			fn(idx, level)
		}, "blinds", "level")
	}
	arm()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
	}
}
