package profile

import (
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/projecthelios/HeliosManager/system/wmi"
)

var (
	// ErrFirmwareRejected means the GET returned a nonzero status field.
	ErrFirmwareRejected = errors.New("profile: firmware rejected the request")

	// ErrUnknownVendorCode means firmware reported a code outside the fixed
	// vendor set. Surfaced as-is rather than guessing a level.
	ErrUnknownVendorCode = errors.New("profile: firmware reported an unknown vendor code")

	// ErrUnsupportedLevel means the level has no vendor code. Cannot happen
	// with the closed enumeration, but kept for forward compatibility.
	ErrUnsupportedLevel = errors.New("profile: level has no vendor code")
)

// Control translates between OS-level profile Levels and the EC vendor
// codes behind the platform-profile register.
type Control struct {
	mu    sync.Mutex
	codec *wmi.Codec
}

// NewControl returns a translator on top of the given codec.
func NewControl(codec *wmi.Codec) (*Control, error) {
	if codec == nil {
		return nil, errors.New("profile: nil codec is invalid")
	}
	return &Control{
		codec: codec,
	}, nil
}

// Current reads the active profile from firmware.
func (c *Control) Current() (Level, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	word, err := c.codec.Execute(wmi.MethodGet, wmi.NewGetWord(wmi.RegPlatformProfile))
	if err != nil {
		return 0, err
	}
	if word.Status() != 0 {
		return 0, errors.Wrapf(ErrFirmwareRejected, "status 0x%04x", word.Status())
	}
	level, ok := codeToLevel[VendorCode(word.Value())]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownVendorCode, "code 0x%02x", word.Value())
	}
	return level, nil
}

// Set asks firmware to switch to the given level. Acceptance does not
// guarantee the value took effect; callers needing a guarantee must read
// back and compare.
func (c *Control) Set(level Level) error {
	code, ok := levelToCode[level]
	if !ok {
		return errors.Wrapf(ErrUnsupportedLevel, "%s", level)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.codec.Execute(wmi.MethodSet, wmi.NewSetWord(wmi.RegPlatformProfile, uint8(code))); err != nil {
		return err
	}
	log.Printf("profile: set to %s (vendor code 0x%02x)\n", level, uint8(code))
	return nil
}

// Ops bundles the callbacks a platform-profile host registers against a
// named profile device.
type Ops struct {
	Probe func() []Level
	Get   func() (Level, error)
	Set   func(Level) error
}

// Ops returns the callback bundle for the host profile framework.
func (c *Control) Ops() Ops {
	return Ops{
		Probe: SupportedLevels,
		Get:   c.Current,
		Set:   c.Set,
	}
}
