package worker

import (
	"errors"
	"time"
)

var (
	// ErrPoolStopped is returned by Submit once every worker has exited.
	ErrPoolStopped = errors.New("worker pool is stopped")

	// ErrNilTask is returned by Submit when given a nil task.
	ErrNilTask = errors.New("task must not be nil")
)

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle indicates the pool is running with nothing queued or executing
	StatusIdle Status = "idle"

	// StatusProcessing indicates at least one task is queued or executing
	StatusProcessing Status = "processing"

	// StatusShuttingDown indicates Stop was called and workers are draining the queue
	StatusShuttingDown Status = "shutting_down"

	// StatusStopped indicates every worker has exited
	StatusStopped Status = "stopped"
)

// state is the pool lifecycle. It only moves forward.
type state int

const (
	stateRunning state = iota
	stateStopping
	stateStopped
)

// Stats is a snapshot of the pool, taken under the pool lock so that
// ActiveTasks and QueuedTasks are observed together.
type Stats struct {
	// Workers is the number of worker goroutines the pool was built with
	Workers int

	// ActiveTasks is the number of tasks currently executing
	ActiveTasks int

	// QueuedTasks is the number of tasks waiting for a worker
	QueuedTasks int

	// SubmittedTasks counts every accepted Submit call
	SubmittedTasks int64

	// CompletedTasks counts tasks whose body has returned
	CompletedTasks int64

	// Status is the current state of the pool
	Status Status

	// Uptime is how long the pool has existed
	Uptime time.Duration
}

// Quiescent reports whether nothing was queued or executing when the
// snapshot was taken.
func (s Stats) Quiescent() bool {
	return s.QueuedTasks == 0 && s.ActiveTasks == 0
}
