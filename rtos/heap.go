package rtos

import (
	"fmt"
	"sync"
)

// heap accounts for the kernel's fixed allocation budget. Task stacks and
// semaphore control blocks are carved out of it.
type heap struct {
	mu    sync.Mutex
	total uintptr
	used  uintptr
}

func (h *heap) alloc(n uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > h.total-h.used {
		return fmt.Errorf("%w: requested %d bytes, %d free", ErrOutOfMemory, n, h.total-h.used)
	}
	h.used += n
	return nil
}

func (h *heap) free(n uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > h.used {
		return ErrNegativeHeapFree
	}
	h.used -= n
	return nil
}

func (h *heap) available() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total - h.used
}
