// Package sim provides a board whose GPIO ports are plain in-memory output
// registers. It lets the program run on a host and is what the tests drive.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/peripheral"
)

const pinsPerPort = 16

type Option func(*Board)

// FailInit makes Init report err, as a board with a broken clock tree would.
func FailInit(err error) Option {
	return func(b *Board) {
		b.initErr = err
	}
}

type Board struct {
	info    board.Info
	initErr error

	mu          sync.Mutex
	initialized bool
	out         map[board.Port]uint16
	outputs     map[board.PinID]bool
	toggles     map[board.PinID]uint64
}

func New(info board.Info, opts ...Option) *Board {
	b := &Board{
		info:    info,
		out:     map[board.Port]uint16{},
		outputs: map[board.PinID]bool{},
		toggles: map[board.PinID]uint64{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	if b.info.LED.Pin >= pinsPerPort {
		return fmt.Errorf("%w: %s on board %s", peripheral.ErrInvalidPinout, b.info.LED, b.info.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Configure the user LED as a push-pull output, initially low
	b.outputs[b.info.LED] = true
	b.out[b.info.LED.Port] &^= 1 << b.info.LED.Pin
	b.initialized = true

	clog.Debug("sim: board %s initialized, LED on %s", b.info.Name, b.info.LED)
	return nil
}

func (b *Board) LED() (peripheral.Pin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, board.ErrNotInitialized
	}
	return &pin{board: b, id: b.info.LED}, nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return board.ErrNotInitialized
	}
	b.initialized = false
	return nil
}

// ToggleOutput flips the output latch of a pin configured as an output.
// Pins that are not outputs are left alone.
func (b *Board) ToggleOutput(id board.PinID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.outputs[id] {
		return
	}
	b.out[id.Port] ^= 1 << id.Pin
	b.toggles[id]++
}

func (b *Board) SetOutput(id board.PinID, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.outputs[id] {
		return
	}
	if on {
		b.out[id.Port] |= 1 << id.Pin
	} else {
		b.out[id.Port] &^= 1 << id.Pin
	}
}

func (b *Board) Output(id board.PinID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out[id.Port]&(1<<id.Pin) != 0
}

// Port returns the raw output register of a port.
func (b *Board) Port(port board.Port) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out[port]
}

func (b *Board) Toggles(id board.PinID) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toggles[id]
}

type pin struct {
	board *Board
	id    board.PinID
}

func (p *pin) High() {
	p.board.SetOutput(p.id, true)
}

func (p *pin) Low() {
	p.board.SetOutput(p.id, false)
}

func (p *pin) Toggle() {
	p.board.ToggleOutput(p.id)
}

func (p *pin) Set(on bool) {
	p.board.SetOutput(p.id, on)
}

func (p *pin) Get() bool {
	return p.board.Output(p.id)
}

var errNoBoardName = errors.New("sim: board has no name")

func init() {
	board.Register("sim", func(info board.Info) (board.Board, error) {
		if info.Name == "" {
			return nil, errNoBoardName
		}
		return New(info), nil
	})
}
