package blinky

import (
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/peripheral"
	"omibyte.io/blinky/rtos"
)

// TimerTask gives the signal once every TogglePeriod.
func TimerTask(signal *rtos.BinarySemaphore) rtos.TaskFunc {
	return func(t *rtos.Task) {
		for {
			// Block task for TogglePeriod
			if err := t.Delay(TogglePeriod); err != nil {
				return
			}

			// Release the semaphore. A give while one is still pending is dropped.
			if !signal.Give() {
				clog.Debug("%s: signal already pending", t.Name())
			}
		}
	}
}

// ResponderTask toggles the LED each time the signal is taken.
func ResponderTask(signal *rtos.BinarySemaphore, led peripheral.Pin) rtos.TaskFunc {
	return func(t *rtos.Task) {
		for {
			// Block until the semaphore is given
			if err := t.Take(signal); err != nil {
				return
			}

			led.Toggle()
		}
	}
}
