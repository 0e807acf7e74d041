package peripheral

import "errors"

var (
	ErrInvalidPinout = errors.New("invalid pinout")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Pin is a digital output line. Toggle flips the current level and reports
// nothing back.
type Pin interface {
	High()
	Low()
	Toggle()

	Set(on bool)
	Get() bool
}
