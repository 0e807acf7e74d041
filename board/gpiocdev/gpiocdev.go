//go:build linux && !tinygo

// Package gpiocdev drives the user LED through a Linux GPIO character device
// line.
package gpiocdev

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/peripheral"
)

const consumer = "blinky"

type Board struct {
	info board.Info

	mu   sync.Mutex
	line *gpiocdev.Line
}

func New(info board.Info) *Board {
	return &Board{info: info}
}

func (b *Board) Init() error {
	if b.info.GPIOChip == "" {
		return fmt.Errorf("%w: board %s has no gpiochip", peripheral.ErrInvalidConfig, b.info.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	line, err := gpiocdev.RequestLine(b.info.GPIOChip, int(b.info.LED.Pin),
		gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		return fmt.Errorf("request %s:%d: %w", b.info.GPIOChip, b.info.LED.Pin, err)
	}
	b.line = line

	clog.Debug("gpiocdev: requested %s:%d as output", b.info.GPIOChip, b.info.LED.Pin)
	return nil
}

func (b *Board) LED() (peripheral.Pin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.line == nil {
		return nil, board.ErrNotInitialized
	}
	return &pin{line: b.line}, nil
}

// Close reverts the line to an input before releasing it.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.line == nil {
		return board.ErrNotInitialized
	}

	if err := b.line.Reconfigure(gpiocdev.AsInput); err != nil {
		clog.Warning("gpiocdev: failed to revert %s:%d to input: %v", b.info.GPIOChip, b.info.LED.Pin, err)
	}
	err := b.line.Close()
	b.line = nil
	return err
}

type pin struct {
	line  *gpiocdev.Line
	value int
}

func (p *pin) High() {
	p.Set(true)
}

func (p *pin) Low() {
	p.Set(false)
}

func (p *pin) Toggle() {
	p.write(p.value ^ 1)
}

func (p *pin) Set(on bool) {
	if on {
		p.write(1)
	} else {
		p.write(0)
	}
}

func (p *pin) Get() bool {
	return p.value == 1
}

func (p *pin) write(v int) {
	if err := p.line.SetValue(v); err != nil {
		clog.Debug("gpiocdev: set value %d: %v", v, err)
		return
	}
	p.value = v
}

func init() {
	board.Register("gpiocdev", func(info board.Info) (board.Board, error) {
		return New(info), nil
	})
}
