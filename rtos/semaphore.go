package rtos

import "context"

// BinarySemaphore holds at most one pending notification. Giving while a
// notification is already pending has no effect.
type BinarySemaphore struct {
	pending chan struct{}
}

func newBinarySemaphore() *BinarySemaphore {
	return &BinarySemaphore{
		pending: make(chan struct{}, 1),
	}
}

// Give raises the notification. It reports false when one was already
// pending.
func (s *BinarySemaphore) Give() bool {
	select {
	case s.pending <- struct{}{}:
		return true
	default:
		return false
	}
}

// Take blocks until a notification is pending and consumes it. There is no
// timeout; only the context ends the wait.
func (s *BinarySemaphore) Take(ctx context.Context) error {
	select {
	case <-s.pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BinarySemaphore) TryTake() bool {
	select {
	case <-s.pending:
		return true
	default:
		return false
	}
}

func (s *BinarySemaphore) Pending() bool {
	return len(s.pending) == 1
}
