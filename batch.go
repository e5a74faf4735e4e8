package csv2parquet

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Progress is a live counter shared by all in-flight tasks of one
// batch run. It is incremented exactly once per completed job, in
// completion order, and is used only for reporting.
type Progress struct {
	total int64
	done  atomic.Int64
}

// NewProgress returns a progress counter for a run of total jobs.
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Done returns the number of completed jobs so far.
func (p *Progress) Done() int64 {
	return p.done.Load()
}

// Total returns the number of jobs in the run.
func (p *Progress) Total() int64 {
	return p.total
}

func (p *Progress) increment() {
	p.done.Add(1)
}

// RunBatch executes one conversion task per job on a worker pool
// bounded to parallelism concurrent executions. Every job runs to
// completion independently; a failed job is recorded in its outcome
// and never cancels, blocks, or is observable by any sibling.
// Outcomes are returned in completion order.
//
// progress and logger may be nil.
func RunBatch(ctx context.Context, jobs []Job, parallelism int, progress *Progress, logger *slog.Logger) []Outcome {
	if parallelism < 1 {
		parallelism = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(jobs))
	)

	g := &errgroup.Group{}
	g.SetLimit(parallelism)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				// The host aborted the whole run; unstarted jobs are
				// reported as failures rather than silently dropped.
				recordOutcome(&mu, &outcomes, progress, Outcome{
					SourcePath: job.SourcePath,
					Err:        newError(KindOther, err),
				})
				return nil
			}

			logger.Debug("converting", slog.String("source", job.SourcePath))
			outcome := Convert(job)
			if outcome.Err != nil {
				logger.Warn("conversion failed",
					slog.String("source", job.SourcePath),
					slog.String("error", outcome.Err.Error()))
			} else {
				logger.Debug("conversion done", slog.String("source", job.SourcePath))
			}

			recordOutcome(&mu, &outcomes, progress, outcome)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// recordOutcome appends to the shared outcome list and bumps the
// progress counter, in that order, under one critical section per
// completed job.
func recordOutcome(mu *sync.Mutex, outcomes *[]Outcome, progress *Progress, o Outcome) {
	mu.Lock()
	*outcomes = append(*outcomes, o)
	mu.Unlock()
	if progress != nil {
		progress.increment()
	}
}
