package rtos

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	// TotalHeapSize is the byte budget shared by task stacks and kernel objects.
	TotalHeapSize uintptr
	MaxPriorities Priority
	TimeSource    TimeSource
}

func DefaultConfig() Config {
	return Config{
		TotalHeapSize: 10 * 1024,
		MaxPriorities: 5,
		TimeSource:    SystemTime{},
	}
}

// Kernel owns the tasks and kernel objects of one program. Tasks are created
// up front and run once Start hands control to the scheduler.
type Kernel struct {
	cfg  Config
	heap heap

	mu      sync.Mutex
	tasks   []*Task
	started bool
}

func New(cfg Config) *Kernel {
	if cfg.TimeSource == nil {
		cfg.TimeSource = SystemTime{}
	}
	if cfg.MaxPriorities == 0 {
		cfg.MaxPriorities = DefaultConfig().MaxPriorities
	}

	return &Kernel{
		cfg:  cfg,
		heap: heap{total: cfg.TotalHeapSize},
	}
}

func (k *Kernel) TimeSource() TimeSource {
	return k.cfg.TimeSource
}

// NewBinarySemaphore allocates a semaphore in the clear state.
func (k *Kernel) NewBinarySemaphore() (*BinarySemaphore, error) {
	if err := k.heap.alloc(semaphoreControlBlockSize); err != nil {
		return nil, err
	}
	return newBinarySemaphore(), nil
}

// CreateTask registers a task to be run by the scheduler. The stack depth is
// in words.
func (k *Kernel) CreateTask(fn TaskFunc, name string, stackDepth uint16, priority Priority) (*Task, error) {
	if priority >= k.cfg.MaxPriorities {
		return nil, fmt.Errorf("%w: %d, maximum is %d", ErrInvalidPriority, priority, k.cfg.MaxPriorities-1)
	}
	if stackDepth == 0 {
		return nil, ErrInvalidStackSize
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return nil, ErrSchedulerRunning
	}

	task := &Task{
		name:       name,
		stackDepth: stackDepth,
		priority:   priority,
		fn:         fn,
		kernel:     k,
	}

	if err := k.heap.alloc(task.stackBytes()); err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}

	k.tasks = append(k.tasks, task)
	return task, nil
}

// Start runs every created task and blocks. Under normal operation it only
// returns once ctx is done. A task that returns or panics while the context
// is still live stops the scheduler with an error.
func (k *Kernel) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return ErrSchedulerRunning
	}
	k.started = true

	// Higher priorities are dispatched first, creation order otherwise
	tasks := slices.Clone(k.tasks)
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return cmp.Compare(b.priority, a.priority)
	})
	k.mu.Unlock()

	if len(tasks) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		task.ctx = groupCtx
		task.setState(TaskRunning)
		group.Go(func() error {
			return k.run(task)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (k *Kernel) run(task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTaskPanicked, task.name, r)
		}
		task.setState(TaskDeleted)
		_ = k.heap.free(task.stackBytes())
	}()

	task.fn(task)

	if task.ctx.Err() == nil {
		return fmt.Errorf("%w: %s", ErrTaskReturned, task.name)
	}
	return nil
}

func (k *Kernel) Started() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.started
}

// Tasks returns the status of every created task in creation order.
func (k *Kernel) Tasks() []TaskStatus {
	k.mu.Lock()
	defer k.mu.Unlock()

	result := make([]TaskStatus, len(k.tasks))
	for i, task := range k.tasks {
		result[i] = task.status()
	}
	return result
}

func (k *Kernel) FreeHeapSize() uintptr {
	return k.heap.available()
}
