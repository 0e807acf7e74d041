//go:build linux && !tinygo

package main

import (
	_ "omibyte.io/blinky/board/gpiocdev"
	_ "omibyte.io/blinky/board/rpio"
)
