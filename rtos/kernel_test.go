package rtos

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name       string
		heap       uintptr
		stackDepth uint16
		priority   Priority
		err        error
	}{
		{"minimal", 4096, MinimalStackSize, IdlePriority + 1, nil},
		{"idle priority", 4096, MinimalStackSize, IdlePriority, nil},
		{"priority too high", 4096, MinimalStackSize, 5, ErrInvalidPriority},
		{"empty stack", 4096, 0, IdlePriority + 1, ErrInvalidStackSize},
		{"heap exhausted", 256, MinimalStackSize, IdlePriority + 1, ErrOutOfMemory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k := New(Config{TotalHeapSize: tc.heap})
			task, err := k.CreateTask(func(*Task) {}, "task", tc.stackDepth, tc.priority)
			if !errors.Is(err, tc.err) {
				t.Fatalf("unexpected error: %v, expected %v", err, tc.err)
			}

			if tc.err != nil {
				if task != nil {
					t.Error("expected no task on failure")
				}
				if len(k.Tasks()) != 0 {
					t.Error("failed task was registered")
				}
				if k.FreeHeapSize() != tc.heap {
					t.Errorf("failed creation consumed heap: %d free", k.FreeHeapSize())
				}
				return
			}

			if task.State() != TaskNotStarted {
				t.Errorf("state is %v, expected %v", task.State(), TaskNotStarted)
			}
			expected := tc.heap - (uintptr(tc.stackDepth)*wordSize + taskControlBlockSize)
			if k.FreeHeapSize() != expected {
				t.Errorf("%d bytes free, expected %d", k.FreeHeapSize(), expected)
			}
		})
	}
}

func TestNewBinarySemaphoreOutOfMemory(t *testing.T) {
	k := New(Config{TotalHeapSize: semaphoreControlBlockSize - 1})
	if _, err := k.NewBinarySemaphore(); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("unexpected error: %v", err)
	}

	k = New(Config{TotalHeapSize: semaphoreControlBlockSize})
	s, err := k.NewBinarySemaphore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Pending() {
		t.Error("new semaphore is not clear")
	}
	if k.FreeHeapSize() != 0 {
		t.Errorf("%d bytes free, expected 0", k.FreeHeapSize())
	}
}

func TestStartRunsTasksUntilCancelled(t *testing.T) {
	clock := NewManualTime(time.Time{})
	k := New(Config{TotalHeapSize: 4096, TimeSource: clock})

	sem, err := k.NewBinarySemaphore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	taken := make(chan struct{}, 16)
	if _, err = k.CreateTask(func(task *Task) {
		for task.Take(sem) == nil {
			taken <- struct{}{}
		}
	}, "consumer", MinimalStackSize, IdlePriority+1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err = k.CreateTask(func(task *Task) {
		for task.Delay(10*time.Millisecond) == nil {
			sem.Give()
		}
	}, "producer", MinimalStackSize, IdlePriority+1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- k.Start(ctx)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	for i := 0; i < 3; i++ {
		if err := clock.WaitForSleepers(waitCtx, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		clock.Advance(10 * time.Millisecond)
		select {
		case <-taken:
		case <-waitCtx.Done():
			t.Fatalf("cycle %d: notification not consumed", i)
		}
	}

	if _, err := k.CreateTask(func(*Task) {}, "late", MinimalStackSize, IdlePriority); !errors.Is(err, ErrSchedulerRunning) {
		t.Errorf("unexpected error: %v", err)
	}
	if err := k.Start(ctx); !errors.Is(err, ErrSchedulerRunning) {
		t.Errorf("unexpected error: %v", err)
	}

	cancel()
	if err := <-result; !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, status := range k.Tasks() {
		if status.State != TaskDeleted {
			t.Errorf("task %s is %v after stop", status.Name, status.State)
		}
	}
	if k.FreeHeapSize() != 4096-semaphoreControlBlockSize {
		t.Errorf("task stacks not released: %d bytes free", k.FreeHeapSize())
	}
}

func TestStartReportsReturningTask(t *testing.T) {
	tests := []struct {
		name string
		fn   TaskFunc
		err  error
	}{
		{"returns", func(*Task) {}, ErrTaskReturned},
		{"panics", func(*Task) { panic("boom") }, ErrTaskPanicked},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k := New(Config{TotalHeapSize: 4096})
			if _, err := k.CreateTask(tc.fn, "broken", MinimalStackSize, IdlePriority+1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := k.CreateTask(func(task *Task) {
				<-task.Context().Done()
			}, "waiter", MinimalStackSize, IdlePriority+1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := k.Start(context.Background()); !errors.Is(err, tc.err) {
				t.Fatalf("unexpected error: %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestStartWithoutTasks(t *testing.T) {
	k := New(DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := k.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected error: %v", err)
	}
	if !k.Started() {
		t.Error("kernel not marked as started")
	}
}
