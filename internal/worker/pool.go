package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fairlines/engine/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool executes jobs on a fixed set of workers. Ledger calls run here so the
// round's critical sections never wait on a collaborator.
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	quit    chan struct{}
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		quit:    make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	log := logger.FromContext(context.Background()).With("worker_id", id)
	for {
		select {
		case job := <-p.jobs:
			p.run(job, log)
		case <-p.quit:
			// Drain whatever is already queued. Settlement credits must not
			// be lost to a shutdown that races the final round.
			for {
				select {
				case job := <-p.jobs:
					p.run(job, log)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(job Job, log *slog.Logger) {
	// Jobs run detached from any request context: the settlement
	// decision they act on is already final.
	if err := job.Process(context.Background()); err != nil {
		log.Error(LogMsgWorkerJobFailed, "error", err, "job_type", fmt.Sprintf("%T", job))
	}
}

// Enqueue adds a job to the queue, blocking when the queue is full.
// Jobs submitted after Stop are dropped.
func (p *Pool) Enqueue(job Job) {
	select {
	case p.jobs <- job:
	case <-p.quit:
	}
}

// Stop signals the workers and waits for them to drain the queue.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
