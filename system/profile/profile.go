package profile

import (
	"fmt"

	"github.com/pkg/errors"
)

// Level is an OS-level thermal profile, ordered from least to most
// aggressive. The string forms follow the platform-profile naming
// convention.
type Level int

const (
	LowPower Level = iota
	Quiet
	Balanced
	BalancedPerformance
	Performance
)

var levelNames = map[Level]string{
	LowPower:            "low-power",
	Quiet:               "quiet",
	Balanced:            "balanced",
	BalancedPerformance: "balanced-performance",
	Performance:         "performance",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a platform-profile name back into a Level.
func ParseLevel(s string) (Level, error) {
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, errors.Errorf("profile: unknown level %q", s)
}

// VendorCode is the EC's internal numeric encoding of a thermal mode.
type VendorCode uint8

const (
	CodeQuiet       VendorCode = 0x00
	CodeBalanced    VendorCode = 0x01
	CodePerformance VendorCode = 0x04
	CodeTurbo       VendorCode = 0x05
	CodeEco         VendorCode = 0x06
)

// levelToCode is the single literal mapping table; the inverse is derived
// from it, so the two directions can never drift apart.
var levelToCode = map[Level]VendorCode{
	LowPower:            CodeEco,
	Quiet:               CodeQuiet,
	Balanced:            CodeBalanced,
	BalancedPerformance: CodePerformance,
	Performance:         CodeTurbo,
}

var codeToLevel = func() map[VendorCode]Level {
	m := make(map[VendorCode]Level, len(levelToCode))
	for level, code := range levelToCode {
		m[code] = level
	}
	return m
}()

// SupportedLevels returns the capability set advertised to the host profile
// framework. It is static and never probes firmware; all five vendor codes
// are assumed present on supported hardware.
func SupportedLevels() []Level {
	return []Level{LowPower, Quiet, Balanced, BalancedPerformance, Performance}
}
