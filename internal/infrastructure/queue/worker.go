package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// JobHandler executes one job; implementations live in usecases.
type JobHandler interface {
	Handle(ctx context.Context, job Job) error
}

type Worker struct {
	ID      int
	JobChan <-chan Job
	Wg      *sync.WaitGroup
	Handler JobHandler
	Logger  zerolog.Logger
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job, ok := <-w.JobChan:
				if !ok {
					w.Logger.Debug().Int("worker", w.ID).Msg("job channel closed")
					return
				}
				if err := w.Handler.Handle(ctx, job); err != nil {
					w.Logger.Error().Err(err).
						Int("worker", w.ID).
						Str("type", string(job.Type)).
						Str("course", job.CourseID).
						Msg("job failed")
				} else {
					w.Logger.Info().
						Int("worker", w.ID).
						Str("type", string(job.Type)).
						Str("course", job.CourseID).
						Msg("job done")
				}
			case <-ctx.Done():
				w.Logger.Debug().Int("worker", w.ID).Msg("worker stopping")
				return
			}
		}
	}()
}
