package board

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"

	"omibyte.io/blinky/peripheral"
)

func TestCatalog(t *testing.T) {
	tests := []struct {
		query  string
		board  string
		driver string
		led    string
	}{
		{"sim", "sim", "sim", "P0.0"},
		{"kit_xmc47_relax_v1", "kit_xmc47_relax_v1", "sim", "P5.9"},
		{"XMC4700-F144X2048", "kit_xmc47_relax_v1", "sim", "P5.9"},
		{"rpi4", "rpi4", "gpiocdev", "P0.17"},
		{"rp2040", "pico", "mcu", "P0.25"},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			info, err := All().Find(tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Name != tc.board {
				t.Errorf("found %s, expected %s", info.Name, tc.board)
			}
			if info.Driver != tc.driver {
				t.Errorf("driver is %s, expected %s", info.Driver, tc.driver)
			}
			if info.LED.String() != tc.led {
				t.Errorf("LED is %s, expected %s", info.LED, tc.led)
			}
		})
	}

	if _, err := All().Find("nucleo"); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCatalogGPIOChip(t *testing.T) {
	info, err := All().FindByName("rpi4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.GPIOChip != "gpiochip0" {
		t.Errorf("gpiochip is %q", info.GPIOChip)
	}
}

func TestParseCatalogError(t *testing.T) {
	if _, err := parseCatalog([]byte("boards: [")); err == nil {
		t.Fatal("expected a parse error")
	}
}

type nullBoard struct{}

func (nullBoard) Init() error                  { return nil }
func (nullBoard) LED() (peripheral.Pin, error) { return nil, ErrNotInitialized }
func (nullBoard) Close() error                 { return nil }

func TestRegisterAndOpen(t *testing.T) {
	Register("null-test", func(Info) (Board, error) {
		return nullBoard{}, nil
	})

	if !slices.Contains(Drivers(), "null-test") {
		t.Errorf("driver missing from %v", Drivers())
	}

	b, err := Open(Info{Name: "bench", Driver: "null-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(nullBoard); !ok {
		t.Errorf("unexpected board %T", b)
	}

	if _, err := Open(Info{Name: "bench", Driver: "missing"}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	Register("null-test", func(Info) (Board, error) { return nullBoard{}, nil })
}
