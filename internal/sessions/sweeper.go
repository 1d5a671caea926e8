package sessions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically expires sessions whose deadline has passed.
type Sweeper struct {
	service  *Service
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
}

func NewSweeper(log *slog.Logger, service *Service, schedule string) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Sweeper{
		service:  service,
		cron:     cron.New(cron.WithParser(parser)),
		schedule: schedule,
		logger:   log.With(slog.String("service", "session_sweeper")),
	}
}

func (s *Sweeper) Start() error {
	if s.service == nil {
		return fmt.Errorf("session service not configured")
	}
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("register sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", slog.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	expired, err := s.service.ExpireDue(context.Background())
	if err != nil {
		s.logger.Error("session sweep failed", slog.Any("error", err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired chat sessions", slog.Int64("count", expired))
	}
}
