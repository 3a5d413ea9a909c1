/*
Package worker provides a fixed-size worker pool whose tasks may submit more
tasks to the same pool, together with a Wait that only returns once the whole
dynamically grown task graph has finished.

Basic usage:

	pool, err := worker.NewPool(worker.Config{Workers: runtime.NumCPU()})
	if err != nil {
		return err
	}
	defer pool.Stop()

	pool.Submit(func() {
		// Tasks may call pool.Submit themselves.
	})

	pool.Wait()

The queue, the active-task count and the lifecycle state share one mutex.
A worker removes a task and counts it as active in the same critical section,
and only uncounts it after the task body, including any Submit calls it made,
has returned. Wait therefore never observes an empty queue with zero active
tasks while a running task still has children left to submit.
*/
package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
	"golang.org/x/time/rate"
)

// Task is a unit of deferred work. Failures must be handled inside the task.
type Task func()

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of worker goroutines
	Workers int

	// RateLimit is the maximum number of task starts per second (0 for unlimited)
	RateLimit int

	// Logger receives worker lifecycle and crash reports. Nil discards them.
	Logger logger.Logger
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Submit appends a task to the queue. It is accepted while the pool is
	// running or shutting down, and rejected with ErrPoolStopped afterwards.
	Submit(Task) error

	// Wait blocks until no task is queued and none is executing.
	// It does not prevent later submissions.
	Wait()

	// Stop lets the workers drain the queue, then blocks until all of them
	// have exited. It must not be called from inside a task.
	Stop()

	// GetStats returns a consistent snapshot of the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status
}

// pool implements the Pool interface
type pool struct {
	config  Config
	log     logger.Logger
	limiter *rate.Limiter

	mu     sync.Mutex
	work   *sync.Cond // queue became non-empty or shutdown started
	idle   *sync.Cond // queue empty and no task executing
	queue  []Task
	active int
	live   int // workers that have not exited
	state  state

	submitted int64
	completed int64
	startTime time.Time

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPool validates config and starts config.Workers workers.
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	p := &pool{
		config:    config,
		log:       log.Named("worker"),
		limiter:   limiter,
		state:     stateRunning,
		live:      config.Workers,
		startTime: time.Now(),
	}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)

	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.log.WithFields(logger.Fields{
		"workers":   config.Workers,
		"rateLimit": config.RateLimit,
	}).Debug("Worker pool started")

	return p, nil
}

// validateConfig checks if the pool configuration is valid
func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func (p *pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.state == stateStopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.queue = append(p.queue, task)
	p.submitted++
	p.mu.Unlock()

	p.work.Signal()
	return nil
}

func (p *pool) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) > 0 || p.active > 0 {
		p.idle.Wait()
	}
}

func (p *pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.state = stateStopping
		queued := len(p.queue)
		p.mu.Unlock()
		p.work.Broadcast()

		p.log.WithFields(logger.Fields{
			"queued": queued,
		}).Debug("Draining worker pool")

		p.wg.Wait()

		p.log.Debug("Worker pool stopped")
	})
}

func (p *pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Workers:        p.config.Workers,
		ActiveTasks:    p.active,
		QueuedTasks:    len(p.queue),
		SubmittedTasks: p.submitted,
		CompletedTasks: p.completed,
		Status:         p.statusLocked(),
		Uptime:         time.Since(p.startTime),
	}
}

func (p *pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.statusLocked()
}

func (p *pool) statusLocked() Status {
	switch p.state {
	case stateStopped:
		return StatusStopped
	case stateStopping:
		return StatusShuttingDown
	}

	if len(p.queue) > 0 || p.active > 0 {
		return StatusProcessing
	}
	return StatusIdle
}

// worker runs tasks until the pool is stopping and the queue is empty.
func (p *pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && p.state == stateRunning {
			p.work.Wait()
		}
		if len(p.queue) == 0 {
			// The last worker out closes the pool in the same critical
			// section, so no Submit can slip in with nobody left to run it.
			p.live--
			if p.live == 0 {
				p.state = stateStopped
			}
			p.mu.Unlock()
			p.log.WithFields(logger.Fields{
				"worker": id,
			}).Trace("Worker exiting")
			return
		}

		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		p.execute(id, task)

		p.mu.Lock()
		p.active--
		p.completed++
		if len(p.queue) == 0 && p.active == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}
}

// execute runs a single task outside the pool lock. A panicking task is
// logged and re-panicked so the process fails instead of losing a worker.
func (p *pool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(logger.Fields{
				"worker": id,
				"panic":  fmt.Sprint(r),
				"stack":  string(debug.Stack()),
			}).Error("Task panicked")
			panic(r)
		}
	}()

	if p.limiter != nil {
		if err := p.limiter.Wait(context.Background()); err != nil {
			p.log.WithFields(logger.Fields{
				"worker": id,
				"error":  err,
			}).Warn("Rate limiter wait failed")
		}
	}

	task()
}
