package rtos

import "errors"

var (
	ErrOutOfMemory      = errors.New("kernel heap exhausted")
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrInvalidStackSize = errors.New("invalid task stack size")
	ErrSchedulerRunning = errors.New("scheduler is already running")
	ErrTaskReturned     = errors.New("task function returned")
	ErrTaskPanicked     = errors.New("task panicked")
	ErrNegativeHeapFree = errors.New("heap free exceeds allocation")
)
