//go:build tinygo

// Package mcu drives the on-board user LED of a microcontroller built with
// TinyGo.
package mcu

import (
	"machine"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/peripheral"
)

type Board struct {
	info        board.Info
	led         machine.Pin
	initialized bool
}

func New(info board.Info) *Board {
	return &Board{info: info, led: machine.LED}
}

func (b *Board) Init() error {
	b.led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b.led.Low()
	b.initialized = true
	return nil
}

func (b *Board) LED() (peripheral.Pin, error) {
	if !b.initialized {
		return nil, board.ErrNotInitialized
	}
	return pin{b.led}, nil
}

func (b *Board) Close() error {
	b.led.Configure(machine.PinConfig{Mode: machine.PinInput})
	b.initialized = false
	return nil
}

type pin struct {
	machine.Pin
}

func (p pin) Toggle() {
	p.Pin.Set(!p.Pin.Get())
}

func init() {
	board.Register("mcu", func(info board.Info) (board.Board, error) {
		return New(info), nil
	})
}
