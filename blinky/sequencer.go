package blinky

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/peripheral"
	"omibyte.io/blinky/rtos"
)

type State uint32

const (
	Uninitialized State = iota
	Initializing
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

type Option func(*Sequencer)

// WithLED wraps the board's LED before it is handed to the responder task.
func WithLED(wrap func(peripheral.Pin) peripheral.Pin) Option {
	return func(s *Sequencer) {
		s.wrapLED = wrap
	}
}

// Sequencer brings the program from power-on to the running scheduler. Every
// setup failure halts it; it is never retried.
type Sequencer struct {
	board   board.Board
	kernel  *rtos.Kernel
	wrapLED func(peripheral.Pin) peripheral.Pin

	mu     sync.Mutex
	state  State
	led    peripheral.Pin
	signal *rtos.BinarySemaphore
}

func NewSequencer(b board.Board, k *rtos.Kernel, opts ...Option) *Sequencer {
	s := &Sequencer{
		board:  b,
		kernel: k,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Signal returns the semaphore shared by the two tasks, or nil before it has
// been created.
func (s *Sequencer) Signal() *rtos.BinarySemaphore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signal
}

type stage struct {
	name  string
	after []string
	run   func() error
}

func (s *Sequencer) stages() []stage {
	return []stage{
		{name: "board", run: s.initBoard},
		{name: "signal", after: []string{"board"}, run: s.createSignal},
		{name: "tasks", after: []string{"signal"}, run: s.createTasks},
	}
}

// Plan returns the setup stages in the order Setup runs them.
func (s *Sequencer) Plan() ([]string, error) {
	ordered, err := plan(s.stages())
	if err != nil {
		return nil, err
	}

	names := make([]string, len(ordered))
	for i, st := range ordered {
		names[i] = st.name
	}
	return names, nil
}

func plan(stages []stage) ([]stage, error) {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(stages))
	for i, st := range stages {
		if _, ok := ids[st.name]; ok {
			return nil, fmt.Errorf("%w: duplicate stage %s", ErrInvalidPlan, st.name)
		}
		ids[st.name] = int64(i)
		g.AddNode(simple.Node(i))
	}

	// An edge runs from each dependency to the stage that needs it
	for i, st := range stages {
		for _, dep := range st.after {
			id, ok := ids[dep]
			if !ok {
				return nil, fmt.Errorf("%w: stage %s depends on unknown stage %s", ErrInvalidPlan, st.name, dep)
			}
			if id == int64(i) {
				return nil, fmt.Errorf("%w: stage %s depends on itself", ErrInvalidPlan, st.name)
			}
			g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(i)))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(a, b int) bool {
			return nodes[a].ID() < nodes[b].ID()
		})
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidPlan, err)
	}

	result := make([]stage, len(sorted))
	for i, node := range sorted {
		result[i] = stages[node.ID()]
	}
	return result, nil
}

// Setup initializes the board, creates the signal and creates both tasks,
// strictly in that order. On failure the sequencer is halted and nothing
// after the failing stage is attempted.
func (s *Sequencer) Setup() error {
	s.mu.Lock()
	if s.state != Uninitialized {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalidState, state)
	}
	s.state = Initializing
	s.mu.Unlock()

	stages, err := plan(s.stages())
	if err != nil {
		return s.halt(err)
	}

	for _, st := range stages {
		clog.Debug("setup: %s", st.name)
		if err := st.run(); err != nil {
			return s.halt(err)
		}
	}
	return nil
}

// Run performs Setup and hands control to the scheduler. It blocks for as
// long as ctx is live. The scheduler returning on its own is an invariant
// violation and is reported as ErrSchedulerReturned.
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.Setup(); err != nil {
		return err
	}

	s.setState(Running)
	clog.Info("scheduler: starting, LED toggles every %v", TogglePeriod)

	err := s.kernel.Start(ctx)
	if ctx.Err() != nil {
		clog.Info("scheduler: stopped")
		return nil
	}
	return errors.Join(ErrSchedulerReturned, err)
}

func (s *Sequencer) initBoard() error {
	if err := s.board.Init(); err != nil {
		return errors.Join(ErrBoardInit, err)
	}

	led, err := s.board.LED()
	if err != nil {
		return errors.Join(ErrBoardInit, err)
	}
	if s.wrapLED != nil {
		led = s.wrapLED(led)
	}

	s.mu.Lock()
	s.led = led
	s.mu.Unlock()
	return nil
}

func (s *Sequencer) createSignal() error {
	signal, err := s.kernel.NewBinarySemaphore()
	if err != nil {
		return errors.Join(ErrSignalCreate, err)
	}

	s.mu.Lock()
	s.signal = signal
	s.mu.Unlock()
	return nil
}

func (s *Sequencer) createTasks() error {
	s.mu.Lock()
	signal, led := s.signal, s.led
	s.mu.Unlock()

	if _, err := s.kernel.CreateTask(ResponderTask(signal, led), BlinkyTaskName, BlinkyTaskStackSize, BlinkyTaskPriority); err != nil {
		return errors.Join(ErrTaskCreate, err)
	}
	if _, err := s.kernel.CreateTask(TimerTask(signal), MainTaskName, MainTaskStackSize, MainTaskPriority); err != nil {
		return errors.Join(ErrTaskCreate, err)
	}
	return nil
}

func (s *Sequencer) halt(err error) error {
	s.setState(Halted)
	clog.Error("setup: halted: %v", err)
	return err
}

func (s *Sequencer) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clog.Debug("sequencer: %v -> %v", s.state, state)
	s.state = state
}
