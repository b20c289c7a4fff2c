// Package worker runs the claim/process loop that feeds tasks from the
// upstream queue into the enrichment pipeline.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/refinery/internal/api"
	"github.com/agenthands/refinery/internal/config"
)

// TaskSource claims pending tasks from the upstream queue.
type TaskSource interface {
	ClaimTasks(ctx context.Context, queue string, max int) ([]api.Task, error)
}

// Processor handles one claimed task end to end.
type Processor interface {
	Process(ctx context.Context, task api.Task) error
}

type Pool struct {
	source    TaskSource
	processor Processor
	cfg       config.WorkerConfig
	logger    *zap.Logger
}

func NewPool(source TaskSource, processor Processor, cfg config.WorkerConfig, logger *zap.Logger) *Pool {
	return &Pool{source: source, processor: processor, cfg: cfg, logger: logger}
}

// Run starts cfg.Concurrency workers and blocks until ctx is cancelled.
// Each worker claims one task at a time; an empty claim or a claim error
// backs off for the poll interval. A failed task is retried up to
// cfg.MaxRetries times, then logged and abandoned to the upstream
// requeue policy.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Concurrency; i++ {
		id := i
		g.Go(func() error {
			return p.workerLoop(ctx, id)
		})
	}

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		err = nil
	}
	return err
}

func (p *Pool) workerLoop(ctx context.Context, id int) error {
	logger := p.logger.With(zap.Int("worker", id))
	logger.Info("worker.start", zap.String("queue", p.cfg.QueueName))

	for {
		if ctx.Err() != nil {
			logger.Info("worker.stop")
			return ctx.Err()
		}

		tasks, err := p.source.ClaimTasks(ctx, p.cfg.QueueName, 1)
		if err != nil {
			logger.Warn("worker.claim_failed", zap.Error(err))
			if !p.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}
		if len(tasks) == 0 {
			if !p.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		for _, task := range tasks {
			p.processWithRetry(ctx, logger, task)
		}
	}
}

func (p *Pool) processWithRetry(ctx context.Context, logger *zap.Logger, task api.Task) {
	var err error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if err = p.processor.Process(ctx, task); err == nil {
			return
		}
		logger.Warn("worker.task_failed",
			zap.String("task_id", task.TaskID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	logger.Error("worker.task_abandoned",
		zap.String("task_id", task.TaskID),
		zap.Int("attempts", p.cfg.MaxRetries+1),
		zap.Error(err))
}

// sleep waits one poll interval; false means the context ended first.
func (p *Pool) sleep(ctx context.Context) bool {
	interval := time.Duration(p.cfg.PollInterval) * time.Second
	select {
	case <-ctx.Done():
		return false
	case <-time.After(interval):
		return true
	}
}
