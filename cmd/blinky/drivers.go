//go:build !tinygo

package main

import (
	_ "omibyte.io/blinky/board/sim"
)
