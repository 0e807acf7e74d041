//go:build linux && !tinygo

// Package rpio drives the user LED through the memory-mapped GPIO registers
// of a Raspberry Pi.
package rpio

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/peripheral"
)

// The BCM2711 exposes GPIO0..GPIO57
const maxPin = 57

type Board struct {
	info board.Info

	mu     sync.Mutex
	opened bool
}

func New(info board.Info) *Board {
	return &Board{info: info}
}

func (b *Board) Init() error {
	if b.info.LED.Pin > maxPin {
		return fmt.Errorf("%w: GPIO%d", peripheral.ErrInvalidPinout, b.info.LED.Pin)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Map the GPIO registers
	if err := rpio.Open(); err != nil {
		return err
	}
	b.opened = true

	p := rpio.Pin(b.info.LED.Pin)
	p.Output()
	p.Low()

	clog.Debug("rpio: GPIO%d configured as output", b.info.LED.Pin)
	return nil
}

func (b *Board) LED() (peripheral.Pin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.opened {
		return nil, board.ErrNotInitialized
	}
	return pin(b.info.LED.Pin), nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.opened {
		return board.ErrNotInitialized
	}

	// Leave the line as an input and unmap the registers
	rpio.Pin(b.info.LED.Pin).Input()
	b.opened = false
	return rpio.Close()
}

type pin rpio.Pin

func (p pin) High() {
	rpio.Pin(p).High()
}

func (p pin) Low() {
	rpio.Pin(p).Low()
}

func (p pin) Toggle() {
	rpio.Pin(p).Toggle()
}

func (p pin) Set(on bool) {
	if on {
		rpio.Pin(p).Write(rpio.High)
	} else {
		rpio.Pin(p).Write(rpio.Low)
	}
}

func (p pin) Get() bool {
	return rpio.Pin(p).Read() == rpio.High
}

func init() {
	board.Register("rpio", func(info board.Info) (board.Board, error) {
		return New(info), nil
	})
}
