package scheduler

import (
	"context"
	"fmt"
	"time"

	leadservice "salesdesk_backend/internal/leads/service"
	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// defaultStaleWindow is how long a contacted lead may sit without movement
// before the sweep flags it.
const defaultStaleWindow = 72 * time.Hour

// Worker consumes pipeline tasks from the asynq queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *leadservice.Service
	cfg    config.SchedulerConfig
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *leadservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		leads:  leads,
		cfg:    cfg,
		log:    log,
	}

	mux.HandleFunc(TaskLeadRequalify, w.handleRequalify)
	mux.HandleFunc(TaskLeadStaleSweep, w.handleStaleSweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRequalify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRequalifyPayload(task)
	if err != nil {
		return err
	}

	if payload.LeadID == "" {
		moved, err := w.leads.RequalifyAll(ctx)
		if err != nil {
			return err
		}
		w.log.Info("batch requalification complete", "moved", moved)
		return nil
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}
	_, err = w.leads.Requalify(ctx, leadID)
	return err
}

func (w *Worker) handleStaleSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadStaleSweepPayload(task)
	if err != nil {
		return err
	}

	window := defaultStaleWindow
	if payload.WindowHours > 0 {
		window = time.Duration(payload.WindowHours) * time.Hour
	}

	flagged, err := w.leads.SweepStale(ctx, window)
	if err != nil {
		return err
	}
	w.log.Info("stale sweep complete", "flagged", flagged)
	return nil
}
