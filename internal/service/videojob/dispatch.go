package videojob

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RunFunc runs one job to a terminal state.
type RunFunc func(ctx context.Context, jobID uuid.UUID) error

// Dispatcher hands a queued job to a runner. The choice of dispatcher
// changes only when the HTTP response returns relative to job completion,
// never the job's observable outcome.
type Dispatcher interface {
	Dispatch(jobID uuid.UUID)
}

// Inline runs the job synchronously on the calling goroutine.
type Inline struct {
	run RunFunc
	log *slog.Logger
}

// NewInline creates a synchronous dispatcher.
func NewInline(run RunFunc, logger *slog.Logger) *Inline {
	return &Inline{run: run, log: logger.With("dispatcher", "inline")}
}

// Dispatch runs the job before returning.
func (d *Inline) Dispatch(jobID uuid.UUID) {
	if err := d.run(context.Background(), jobID); err != nil {
		d.log.Error("video job run failed",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()))
	}
}

// Background runs jobs on a bounded worker pool. Jobs for different
// lessons process fully in parallel; the limit only caps total workers.
type Background struct {
	run RunFunc
	log *slog.Logger
	g   *errgroup.Group
}

// NewBackground creates a dispatcher that runs jobs off the request
// goroutine, with at most workers concurrent runs.
func NewBackground(run RunFunc, workers int, logger *slog.Logger) *Background {
	g := new(errgroup.Group)
	g.SetLimit(workers)
	return &Background{
		run: run,
		log: logger.With("dispatcher", "background"),
		g:   g,
	}
}

// Dispatch hands the job to the worker pool. When every worker is
// busy it blocks the caller until a slot frees up; goroutine count
// never exceeds the worker limit.
func (d *Background) Dispatch(jobID uuid.UUID) {
	d.g.Go(func() error {
		if err := d.run(context.Background(), jobID); err != nil {
			d.log.Error("video job run failed",
				slog.String("job_id", jobID.String()),
				slog.String("error", err.Error()))
		}
		// Run errors are job-level, reported via the job's status row.
		return nil
	})
}

// Wait blocks until all dispatched jobs finish. Used during shutdown.
func (d *Background) Wait() {
	_ = d.g.Wait()
}
