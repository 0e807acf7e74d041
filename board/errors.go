package board

import "errors"

var (
	ErrUnknownBoard   = errors.New("unknown board")
	ErrUnknownDriver  = errors.New("unknown board driver")
	ErrNotInitialized = errors.New("board not initialized")
)
