package collision

import (
	"context"
	"sync"
)

// Job is a cook request. Generation orders results from the same owner.
type Job struct {
	Generation uint64
	Soup       *TriangleSoup
}

// Result is the outcome of a Job.
type Result struct {
	Generation uint64
	Shape      Shape
	Err        error
}

// Worker cooks jobs on background goroutines and delivers results on a
// buffered channel the owner drains at its swap-in point.
type Worker struct {
	cooker  Cooker
	jobs    chan Job
	results chan Result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWorker starts workers goroutines pulling from a queue of queueSize.
func NewWorker(cooker Cooker, workers, queueSize int) *Worker {
	workers = max(workers, 1)
	queueSize = max(queueSize, 1)

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		cooker:  cooker,
		jobs:    make(chan Job, queueSize),
		results: make(chan Result, queueSize+workers),
		ctx:     ctx,
		cancel:  cancel,
	}

	for range workers {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

// Submit queues job without blocking. It returns false when the queue is
// full or the worker is shut down.
func (w *Worker) Submit(job Job) bool {
	if w.ctx.Err() != nil {
		return false
	}
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// Results returns the channel completed cooks are delivered on.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// QueueLength returns the number of jobs waiting to be cooked.
func (w *Worker) QueueLength() int {
	return len(w.jobs)
}

func (w *Worker) run() {
	defer w.wg.Done()

	for {
		select {
		case job := <-w.jobs:
			shape, err := w.cooker.Cook(w.ctx, job.Soup)
			result := Result{Generation: job.Generation, Shape: shape, Err: err}

			select {
			case w.results <- result:
			case <-w.ctx.Done():
				return
			}

		case <-w.ctx.Done():
			return
		}
	}
}

// Shutdown cancels in-flight cooks and waits for the goroutines to exit.
func (w *Worker) Shutdown() {
	w.once.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}
