// Package monitor records when an output pin changes level and summarizes
// the intervals between changes.
package monitor

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"omibyte.io/blinky/peripheral"
)

// DefaultWindow is the number of most recent intervals kept.
const DefaultWindow = 1024

type Summary struct {
	Toggles int
	Mean    time.Duration
	StdDev  time.Duration
	Min     time.Duration
	Max     time.Duration
}

func (s Summary) String() string {
	if s.Toggles < 2 {
		return fmt.Sprintf("%d toggles", s.Toggles)
	}
	return fmt.Sprintf("%d toggles, interval mean %v stddev %v min %v max %v",
		s.Toggles, s.Mean, s.StdDev, s.Min, s.Max)
}

// Monitor wraps a pin and timestamps every level change made through it.
type Monitor struct {
	pin    peripheral.Pin
	now    func() time.Time
	window int

	mu        sync.Mutex
	toggles   int
	last      time.Time
	intervals []float64
}

func New(pin peripheral.Pin, now func() time.Time) *Monitor {
	return &Monitor{
		pin:    pin,
		now:    now,
		window: DefaultWindow,
	}
}

func (m *Monitor) High() {
	m.Set(true)
}

func (m *Monitor) Low() {
	m.Set(false)
}

func (m *Monitor) Toggle() {
	m.pin.Toggle()
	m.record()
}

func (m *Monitor) Set(on bool) {
	if m.pin.Get() == on {
		return
	}
	m.pin.Set(on)
	m.record()
}

func (m *Monitor) Get() bool {
	return m.pin.Get()
}

func (m *Monitor) record() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.toggles > 0 {
		m.intervals = append(m.intervals, float64(now.Sub(m.last)))
		if len(m.intervals) > m.window {
			m.intervals = m.intervals[len(m.intervals)-m.window:]
		}
	}
	m.toggles++
	m.last = now
}

func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{Toggles: m.toggles}
	if len(m.intervals) == 0 {
		return s
	}

	mean, std := stat.MeanStdDev(m.intervals, nil)
	if math.IsNaN(std) {
		std = 0
	}
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(std)
	s.Min = time.Duration(floats.Min(m.intervals))
	s.Max = time.Duration(floats.Max(m.intervals))
	return s
}
