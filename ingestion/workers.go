package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Workers runs a fixed number of Worker loops on a shared goroutine pool.
type Workers struct {
	worker *Worker
	pool   *ants.Pool
	count  int
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewWorkers creates a worker group that will run count concurrent loops of
// the given worker. Count values below 1 are raised to 1.
func NewWorkers(worker *Worker, count int) (*Workers, error) {
	if worker == nil {
		return nil, ErrWorkerRequired
	}
	if count < 1 {
		count = 1
	}

	pool, err := ants.NewPool(count)
	if err != nil {
		return nil, err
	}

	return &Workers{
		worker: worker,
		pool:   pool,
		count:  count,
		logger: slog.Default().With("component", "ingestion-workers"),
	}, nil
}

// Start launches the worker loops. They run until ctx is cancelled.
func (ws *Workers) Start(ctx context.Context) error {
	for i := 0; i < ws.count; i++ {
		ws.wg.Add(1)
		err := ws.pool.Submit(func() {
			defer ws.wg.Done()
			ws.worker.Run(ctx)
		})
		if err != nil {
			ws.wg.Done()
			return err
		}
	}
	ws.logger.Info("ingestion workers started", "count", ws.count)
	return nil
}

// Release waits for the worker loops to exit and releases the pool.
// Cancel the context passed to Start before calling Release.
func (ws *Workers) Release() {
	ws.wg.Wait()
	ws.pool.Release()
	ws.logger.Info("ingestion workers released")
}
