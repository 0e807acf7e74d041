package rtos

import (
	"context"
	"sync/atomic"
	"time"
)

type Priority uint8

const (
	IdlePriority Priority = 0

	// MinimalStackSize is the smallest useful task stack, in words.
	MinimalStackSize uint16 = 128

	wordSize                  = 4
	taskControlBlockSize      = 96
	semaphoreControlBlockSize = 80
)

type TaskState uint32

const (
	TaskNotStarted TaskState = iota
	TaskRunning
	TaskBlocked
	TaskDeleted
)

func (s TaskState) String() string {
	switch s {
	case TaskNotStarted:
		return "not started"
	case TaskRunning:
		return "running"
	case TaskBlocked:
		return "blocked"
	case TaskDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// TaskFunc is the body of a task. It is expected to loop forever and only
// return once the task's context is done.
type TaskFunc func(t *Task)

type Task struct {
	name       string
	stackDepth uint16
	priority   Priority
	fn         TaskFunc
	kernel     *Kernel
	ctx        context.Context
	state      atomic.Uint32
}

// TaskStatus is a point-in-time view of a task.
type TaskStatus struct {
	Name       string
	StackDepth uint16
	Priority   Priority
	State      TaskState
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Priority() Priority {
	return t.priority
}

func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

// Context is done when the scheduler is stopping.
func (t *Task) Context() context.Context {
	return t.ctx
}

// Delay blocks the task for d. It returns an error only when the scheduler
// is stopping.
func (t *Task) Delay(d time.Duration) error {
	t.setState(TaskBlocked)
	defer t.setState(TaskRunning)
	return t.kernel.cfg.TimeSource.Sleep(t.ctx, d)
}

// Take blocks the task until the semaphore is given, with no timeout.
func (t *Task) Take(s *BinarySemaphore) error {
	t.setState(TaskBlocked)
	defer t.setState(TaskRunning)
	return s.Take(t.ctx)
}

func (t *Task) setState(state TaskState) {
	t.state.Store(uint32(state))
}

func (t *Task) stackBytes() uintptr {
	return uintptr(t.stackDepth)*wordSize + taskControlBlockSize
}

func (t *Task) status() TaskStatus {
	return TaskStatus{
		Name:       t.name,
		StackDepth: t.stackDepth,
		Priority:   t.priority,
		State:      t.State(),
	}
}
