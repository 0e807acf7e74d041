//go:build tinygo

package main

import (
	"context"

	"omibyte.io/blinky/blinky"
	"omibyte.io/blinky/board"
	_ "omibyte.io/blinky/board/mcu"
	"omibyte.io/blinky/rtos"
)

// boardName selects the catalog entry, e.g. -ldflags "-X main.boardName=feather-m4"
var boardName = "pico"

func main() {
	info, err := board.All().FindByName(boardName)
	if err != nil {
		halt(err)
	}

	b, err := board.Open(info)
	if err != nil {
		halt(err)
	}

	// Run only comes back on a setup failure or a broken scheduler
	err = blinky.NewSequencer(b, rtos.New(rtos.DefaultConfig())).Run(context.Background())
	halt(err)
}

func halt(err error) {
	if err != nil {
		println("halt:", err.Error())
	}
	select {}
}
