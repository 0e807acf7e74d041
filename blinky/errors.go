package blinky

import "errors"

var (
	ErrBoardInit         = errors.New("board initialization failed")
	ErrSignalCreate      = errors.New("failed to create signal")
	ErrTaskCreate        = errors.New("failed to create task")
	ErrSchedulerReturned = errors.New("scheduler returned")
	ErrInvalidState      = errors.New("sequencer already used")
	ErrInvalidPlan       = errors.New("invalid setup plan")
)
