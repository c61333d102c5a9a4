package fanboost

import (
	"bytes"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/projecthelios/HeliosManager/system/wmi"
)

var (
	// ErrInvalidInput means the attribute write was not "0" or "1". The
	// stored value is left unchanged; no firmware call is attempted.
	ErrInvalidInput = errors.New(`fanboost: input must be "0" or "1"`)

	// ErrFirmwareRejected means a read returned a nonzero status field.
	ErrFirmwareRejected = errors.New("fanboost: firmware rejected the request")
)

// Control reads and writes the fan-boost toggle register. The toggle is
// independent of the active thermal profile.
type Control struct {
	mu    sync.Mutex
	codec *wmi.Codec
}

// NewControl returns a toggle control on top of the given codec.
func NewControl(codec *wmi.Codec) (*Control, error) {
	if codec == nil {
		return nil, errors.New("fanboost: nil codec is invalid")
	}
	return &Control{
		codec: codec,
	}, nil
}

// Enabled reads the toggle. Firmware only defines 0 and 1 for this
// register; anything else is coerced to its truthiness rather than treated
// as an error.
func (c *Control) Enabled() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	word, err := c.codec.Execute(wmi.MethodGet, wmi.NewGetWord(wmi.RegFanBoost))
	if err != nil {
		return false, err
	}
	if word.Status() != 0 {
		return false, errors.Wrapf(ErrFirmwareRejected, "status 0x%04x", word.Status())
	}
	return word.Value() != 0, nil
}

// SetEnabled writes the toggle.
func (c *Control) SetEnabled(enabled bool) error {
	var value uint8
	if enabled {
		value = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.codec.Execute(wmi.MethodSet, wmi.NewSetWord(wmi.RegFanBoost, value)); err != nil {
		return err
	}
	log.Printf("fanboost: set to %d\n", value)
	return nil
}

// ParseAttr decodes a write to the fan-boost attribute. Only ASCII "0" and
// "1" are accepted, with an optional trailing newline.
func ParseAttr(b []byte) (bool, error) {
	switch string(bytes.TrimSuffix(b, []byte("\n"))) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "got %q", b)
	}
}

// FormatAttr encodes the value emitted on an attribute read.
func FormatAttr(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}
