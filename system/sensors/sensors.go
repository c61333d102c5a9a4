package sensors

import (
	"log"
	"time"

	"github.com/pkg/errors"
)

// Sample is one poll of the thermal telemetry. Samples are ephemeral and
// never persisted.
type Sample struct {
	CPU  int // degrees Celsius
	GPU  int // degrees Celsius
	Time time.Time
}

// Source produces one Sample per poll interval.
type Source interface {
	Sample() (Sample, error)
}

// GPUColdTemp is reported when no GPU reading is available, so a missing
// GPU never triggers or blocks a transition.
const GPUColdTemp = 0

// CPUReader reads the CPU package temperature.
type CPUReader interface {
	Temperature() (int, error)
}

// GPUReader reads the discrete GPU temperature.
type GPUReader interface {
	Temperature() (int, error)
}

// System composes the CPU zone reader with an optional GPU reader into one
// Source.
type System struct {
	cpu CPUReader
	gpu GPUReader
}

var _ Source = &System{}

// NewSystem returns a Source over the given readers. gpu may be nil on
// machines without a discrete GPU.
func NewSystem(cpu CPUReader, gpu GPUReader) (*System, error) {
	if cpu == nil {
		return nil, errors.New("sensors: nil CPU reader is invalid")
	}
	return &System{
		cpu: cpu,
		gpu: gpu,
	}, nil
}

// Sample reads both sensors. A failed CPU read fails the sample; a failed
// or absent GPU read degrades to the cold sentinel.
func (s *System) Sample() (Sample, error) {
	cpu, err := s.cpu.Temperature()
	if err != nil {
		return Sample{}, err
	}

	sample := Sample{
		CPU:  cpu,
		GPU:  GPUColdTemp,
		Time: time.Now(),
	}
	if s.gpu != nil {
		if gpu, err := s.gpu.Temperature(); err == nil {
			sample.GPU = gpu
		} else {
			log.Printf("sensors: gpu read failed, assuming cold: %s\n", err)
		}
	}
	return sample, nil
}
