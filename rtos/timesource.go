package rtos

import (
	"context"
	"sync"
	"time"
)

// TimeSource provides the kernel tick. Sleep blocks the calling task until
// the duration has elapsed or the context is done.
type TimeSource interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

func (SystemTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type sleeper struct {
	deadline time.Time
	wake     chan struct{}
}

// ManualTime is a TimeSource that only advances when told to. Sleeping tasks
// are released by Advance once their deadline has passed.
type ManualTime struct {
	mu       sync.Mutex
	now      time.Time
	sleepers []*sleeper
	changed  chan struct{}
}

func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{
		now:     start,
		changed: make(chan struct{}),
	}
}

func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	m.mu.Lock()
	s := &sleeper{
		deadline: m.now.Add(d),
		wake:     make(chan struct{}),
	}
	m.sleepers = append(m.sleepers, s)
	m.notify()
	m.mu.Unlock()

	select {
	case <-s.wake:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		m.remove(s)
		m.mu.Unlock()
		return ctx.Err()
	}
}

// Advance moves the clock forward and wakes every sleeper whose deadline is
// now due.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)

	remaining := m.sleepers[:0]
	for _, s := range m.sleepers {
		if !s.deadline.After(m.now) {
			close(s.wake)
		} else {
			remaining = append(remaining, s)
		}
	}
	m.sleepers = remaining
	m.notify()
}

// Sleepers returns the number of tasks currently blocked in Sleep.
func (m *ManualTime) Sleepers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sleepers)
}

// WaitForSleepers blocks until at least n tasks are blocked in Sleep.
func (m *ManualTime) WaitForSleepers(ctx context.Context, n int) error {
	for {
		m.mu.Lock()
		if len(m.sleepers) >= n {
			m.mu.Unlock()
			return nil
		}
		changed := m.changed
		m.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *ManualTime) notify() {
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *ManualTime) remove(s *sleeper) {
	for i, other := range m.sleepers {
		if other == s {
			m.sleepers = append(m.sleepers[:i], m.sleepers[i+1:]...)
			m.notify()
			return
		}
	}
}
