package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/queue"
)

// Scheduler enqueues the nightly moderation-queue sweep for the worker.
type Scheduler struct {
	cron     *cron.Cron
	producer *queue.Producer
	log      zerolog.Logger
}

func NewScheduler(producer *queue.Producer, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		producer: producer,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.producer == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueueSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running job to finish, up to five seconds.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueSweep() {
	if err := s.producer.EnqueueSweep(context.Background()); err != nil {
		s.log.Error().Err(err).Msg("enqueue sweep failed")
	}
}
