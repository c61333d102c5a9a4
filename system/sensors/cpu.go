package sensors

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const defaultThermalRoot = "/sys/class/thermal"

// DefaultZoneTypes are the thermal zone type substrings tried in order of
// preference when locating the CPU package sensor.
var DefaultZoneTypes = []string{"x86_pkg_temp", "cpu"}

// CPUZone reads the package temperature from the first thermal zone whose
// type matches one of the preferred substrings.
type CPUZone struct {
	root  string
	types []string
}

var _ CPUReader = &CPUZone{}

// NewCPUZone returns a reader preferring the given zone type substrings.
// An empty list falls back to DefaultZoneTypes.
func NewCPUZone(types []string) *CPUZone {
	if len(types) == 0 {
		types = DefaultZoneTypes
	}
	return &CPUZone{
		root:  defaultThermalRoot,
		types: types,
	}
}

// Temperature scans the thermal zones and returns degrees Celsius.
func (z *CPUZone) Temperature() (int, error) {
	entries, err := os.ReadDir(z.root)
	if err != nil {
		return 0, errors.Wrap(err, "sensors: cannot list thermal zones")
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "thermal_zone") {
			continue
		}
		zoneType, err := os.ReadFile(filepath.Join(z.root, name, "type"))
		if err != nil {
			continue
		}
		if !z.matches(strings.TrimSpace(string(zoneType))) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(z.root, name, "temp"))
		if err != nil {
			continue
		}
		milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			continue
		}
		return milli / 1000, nil
	}

	return 0, errors.Errorf("sensors: no cpu thermal zone found under %s", z.root)
}

func (z *CPUZone) matches(zoneType string) bool {
	lower := strings.ToLower(zoneType)
	for _, t := range z.types {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
