package board

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"omibyte.io/blinky/peripheral"
)

//go:embed boards.yaml
var rawBoards []byte

var boards Catalog

type Port uint8

// PinID addresses a GPIO line by port and pin number.
type PinID struct {
	Port Port  `yaml:"port"`
	Pin  uint8 `yaml:"pin"`
}

func (p PinID) String() string {
	return fmt.Sprintf("P%d.%d", p.Port, p.Pin)
}

type Info struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Vendor      string   `yaml:"vendor"`
	Chips       []string `yaml:"chips"`
	Driver      string   `yaml:"driver"`
	GPIOChip    string   `yaml:"gpiochip"`
	LED         PinID    `yaml:"led"`
}

// Board is the board support collaborator. Init brings up clocks, pins and
// peripherals and must succeed before LED is used.
type Board interface {
	Init() error
	LED() (peripheral.Pin, error)
	Close() error
}

type Driver func(info Info) (Board, error)

var (
	driversMu sync.RWMutex
	drivers   = map[string]Driver{}
)

// Register makes a board driver available by name. It panics if the name is
// already taken.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if _, ok := drivers[name]; ok {
		panic("board: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := maps.Keys(drivers)
	slices.Sort(names)
	return names
}

// Open creates the board described by info with its registered driver. The
// board still has to be initialized.
func Open(info Info) (Board, error) {
	driversMu.RLock()
	driver, ok := drivers[info.Driver]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q for board %s", ErrUnknownDriver, info.Driver, info.Name)
	}
	return driver(info)
}

func All() Catalog {
	return boards
}

type Catalog []Info

func (c Catalog) FindByName(name string) (Info, error) {
	for _, info := range c {
		if info.Name == strings.ToLower(name) {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %s", ErrUnknownBoard, name)
}

func (c Catalog) FindByChip(name string) (Info, error) {
	for _, info := range c {
		if slices.Contains(info.Chips, strings.ToLower(name)) {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: no board with chip %s", ErrUnknownBoard, name)
}

// Find looks a board up by name, then by chip.
func (c Catalog) Find(name string) (Info, error) {
	if info, err := c.FindByName(name); err == nil {
		return info, nil
	}
	return c.FindByChip(name)
}

func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, info := range c {
		names[i] = info.Name
	}
	return names
}

func parseCatalog(raw []byte) (Catalog, error) {
	var c struct {
		Elements []Info `yaml:"boards"`
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c.Elements, nil
}

func init() {
	var err error
	if boards, err = parseCatalog(rawBoards); err != nil {
		panic(err)
	}
}
