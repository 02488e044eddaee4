package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokerhall/holdem/internal/game"
)

// Scheduler starts the next round after a configurable pause. It uses
// a quartz clock so tests can advance time without sleeping.
type Scheduler struct {
	registry *Registry
	clock    quartz.Clock
	delay    time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	timers map[string]*quartz.Timer
}

// NewScheduler creates a scheduler driven by the real clock.
func NewScheduler(registry *Registry, delay time.Duration, logger *log.Logger) *Scheduler {
	return NewSchedulerWithClock(registry, delay, logger, quartz.NewReal())
}

// NewSchedulerWithClock creates a scheduler with an injected clock.
func NewSchedulerWithClock(registry *Registry, delay time.Duration, logger *log.Logger, clock quartz.Clock) *Scheduler {
	return &Scheduler{
		registry: registry,
		clock:    clock,
		delay:    delay,
		logger:   logger.WithPrefix("scheduler"),
		timers:   make(map[string]*quartz.Timer),
	}
}

// Schedule arms the restart timer for a table, replacing any timer
// already pending for it.
func (s *Scheduler) Schedule(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[tableID]; ok {
		timer.Stop()
	}

	s.timers[tableID] = s.clock.AfterFunc(s.delay, func() {
		s.fire(tableID)
	})
	s.logger.Debug("Scheduled next round", "table", tableID, "delay", s.delay)
}

// Cancel drops any pending restart for a table.
func (s *Scheduler) Cancel(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[tableID]; ok {
		timer.Stop()
		delete(s.timers, tableID)
	}
}

// StopAll cancels every pending restart.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(tableID string) {
	s.mu.Lock()
	delete(s.timers, tableID)
	s.mu.Unlock()

	err := s.registry.With(tableID, func(session *game.Session) error {
		return session.StartRound()
	})
	switch {
	case err == nil:
		s.logger.Info("Started next round", "table", tableID)
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrRoundInProgress):
		// Table was destroyed, drained, or started by hand in the meantime.
		s.logger.Debug("Skipping scheduled round", "table", tableID, "reason", err)
	default:
		s.logger.Error("Failed to start scheduled round", "table", tableID, "error", err)
	}
}
