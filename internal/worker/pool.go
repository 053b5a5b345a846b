package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Job is one lookup to run in the pool. Index is the job's position in the
// submitted slice so callers can keep input order in their output.
type Job func(ctx context.Context, index int) error

// Options bounds how jobs are run.
type Options struct {
	Workers int
	// Limiter throttles job starts. Nil means unthrottled.
	Limiter *rate.Limiter
}

// Run executes jobs with bounded concurrency and returns a joined error.
func Run(ctx context.Context, opts Options, jobs []Job) error {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if len(jobs) == 0 {
		return nil
	}

	type task struct {
		index int
		job   Job
	}
	taskCh := make(chan task)
	errCh := make(chan error, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				if opts.Limiter != nil {
					if err := opts.Limiter.Wait(ctx); err != nil {
						errCh <- fmt.Errorf("job %d: %w", t.index, err)
						continue
					}
				}
				if err := t.job(ctx, t.index); err != nil {
					errCh <- err
				}
			}
		}()
	}

enqueueLoop:
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			break enqueueLoop
		case taskCh <- task{index: i, job: job}:
		}
	}
	close(taskCh)

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		errs = append(errs, ctxErr)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
