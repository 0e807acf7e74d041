//go:build !tinygo

package main

import (
	"fmt"
	"os"
	"strconv"
)

type Env map[string]string

func Environment() Env {
	return map[string]string{
		"BLINKY_BOARD":     getenv("BLINKY_BOARD", "sim"),
		"BLINKY_LOG_LEVEL": getenv("BLINKY_LOG_LEVEL", "info"),
		"BLINKY_HEAP_SIZE": getenv("BLINKY_HEAP_SIZE", ""),
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

// Int returns the value of key as an integer, or def when it is unset or
// malformed.
func (e Env) Int(key string, def int) int {
	v := e.Value(key)
	if len(v) == 0 {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s=%q: %v\n", key, v, err)
		return def
	}
	return n
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
