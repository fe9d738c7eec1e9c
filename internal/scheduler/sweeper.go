package scheduler

import (
	"context"
	"time"

	"salesdesk_backend/platform/logger"
)

const defaultSweepInterval = time.Hour

// Sweeper periodically enqueues the recurring pipeline tasks: a stale sweep
// and a batch requalification. It runs in the scheduler binary next to the
// worker so recurrence survives worker restarts.
type Sweeper struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
}

func NewSweeper(client *Client, log *logger.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{client: client, log: log, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if err := s.client.EnqueueStaleSweep(ctx, LeadStaleSweepPayload{}); err != nil {
		s.log.Error("failed to enqueue stale sweep", "error", err)
	}
	if err := s.client.ScheduleRequalify(ctx, LeadRequalifyPayload{}, time.Now()); err != nil {
		s.log.Error("failed to enqueue batch requalification", "error", err)
	}
}
