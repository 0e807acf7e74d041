package sim

import (
	"errors"
	"testing"

	"omibyte.io/blinky/board"
	"omibyte.io/blinky/peripheral"
)

func TestInit(t *testing.T) {
	errClock := errors.New("clock tree failed to lock")

	tests := []struct {
		name string
		info board.Info
		opts []Option
		err  error
	}{
		{"xmc", board.Info{Name: "xmc", LED: board.PinID{Port: 5, Pin: 9}}, nil, nil},
		{"bad pin", board.Info{Name: "bad", LED: board.PinID{Port: 1, Pin: 16}}, nil, peripheral.ErrInvalidPinout},
		{"failing", board.Info{Name: "failing"}, []Option{FailInit(errClock)}, errClock},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New(tc.info, tc.opts...)
			if err := b.Init(); !errors.Is(err, tc.err) {
				t.Fatalf("unexpected error: %v, expected %v", err, tc.err)
			}

			_, err := b.LED()
			if tc.err != nil && !errors.Is(err, board.ErrNotInitialized) {
				t.Errorf("LED available after failed init: %v", err)
			}
			if tc.err == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	led := board.PinID{Port: 5, Pin: 9}
	b := New(board.Info{Name: "xmc", LED: led})
	if err := b.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pin, err := b.LED()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pin.Get() {
		t.Fatal("LED starts on")
	}

	for i := 1; i <= 5; i++ {
		pin.Toggle()
		if pin.Get() != (i%2 == 1) {
			t.Errorf("after %d toggles LED is %v", i, pin.Get())
		}
	}

	if b.Port(5) != 1<<9 {
		t.Errorf("port 5 register is %#04x", b.Port(5))
	}
	if b.Toggles(led) != 5 {
		t.Errorf("%d toggles recorded, expected 5", b.Toggles(led))
	}

	pin.Low()
	if pin.Get() {
		t.Error("LED on after Low")
	}
	pin.Set(true)
	if !pin.Get() {
		t.Error("LED off after Set(true)")
	}

	// Pins that were never configured as outputs are not driven
	other := board.PinID{Port: 5, Pin: 8}
	b.ToggleOutput(other)
	if b.Output(other) {
		t.Error("input pin was driven")
	}

	if err := b.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := b.Close(); !errors.Is(err, board.ErrNotInitialized) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRegisteredDriver(t *testing.T) {
	info, err := board.All().FindByName("kit_xmc47_relax_v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := board.Open(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*Board); !ok {
		t.Fatalf("unexpected board %T", b)
	}
}
