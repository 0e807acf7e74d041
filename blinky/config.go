package blinky

import (
	"time"

	"omibyte.io/blinky/rtos"
)

const (
	BlinkyTaskName      = "Blinky"
	BlinkyTaskStackSize = rtos.MinimalStackSize
	BlinkyTaskPriority  = rtos.IdlePriority + 1

	MainTaskName      = "Main"
	MainTaskStackSize = rtos.MinimalStackSize
	MainTaskPriority  = rtos.IdlePriority + 1

	// TogglePeriod is the user LED toggle period
	TogglePeriod = 500 * time.Millisecond
)
