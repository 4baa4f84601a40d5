// Package scheduler runs the periodic session monitor.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MarketLens/internal/markethours"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
)

// DefaultSessionCron evaluates the exchanges at the top of every minute.
const DefaultSessionCron = "0 * * * * *"

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Clock    *markethours.Clock
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics

	now  func() time.Time
	mu   sync.Mutex
	last map[string]model.SessionStatus // exchange id -> last observed status
}

// NewScheduler creates a new Scheduler. A nil recorder records nothing.
func NewScheduler(clock *markethours.Clock, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Clock:    clock,
		Recorder: rec,
		Metrics:  m,
		now:      time.Now,
		last:     make(map[string]model.SessionStatus),
	}
}

// RegisterAll registers the session monitor task.
func (s *Scheduler) RegisterAll(sessionCron string) error {
	if sessionCron == "" {
		sessionCron = DefaultSessionCron
	}
	if _, err := s.Cron.AddFunc(sessionCron, s.sessionTask); err != nil {
		return fmt.Errorf("register session task: %w", err)
	}
	return nil
}

// Start evaluates the sessions once and starts the cron scheduler.
func (s *Scheduler) Start() {
	s.sessionTask()
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunSessionCheckNow executes the session task immediately.
func (s *Scheduler) RunSessionCheckNow() {
	s.sessionTask()
}

// LastStatus returns the most recent status observed for an exchange.
func (s *Scheduler) LastStatus(exchange string) (model.SessionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.last[exchange]
	return st, ok
}

func (s *Scheduler) sessionTask() {
	at := s.now()
	for _, st := range s.Clock.Statuses(at) {
		id := st.Window.ID
		s.Metrics.SetMarketOpen(id, st.IsOpen())

		s.mu.Lock()
		prev, seen := s.last[id]
		s.last[id] = st.Status
		s.mu.Unlock()

		if seen && prev == st.Status {
			continue
		}
		if seen {
			log.Info().Str("exchange", id).Str("from", string(prev)).Str("to", string(st.Status)).
				Str("local_time", st.LocalTime).Msg("session transition")
		}
		s.Metrics.IncSessionTransition(id, string(st.Status))
		if err := s.Recorder.RecordSessionTransition(&recorder.SessionEvent{
			Exchange:   id,
			Status:     string(st.Status),
			PrevStatus: string(prev),
			LocalTime:  st.LocalTime,
			At:         at,
		}); err != nil {
			log.Error().Err(err).Str("exchange", id).Msg("record session transition")
		}
	}
}
