package sensors

import (
	"sync"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/pkg/errors"
)

// NVML reads the primary GPU temperature through the NVIDIA management
// library.
type NVML struct {
	mu          sync.Mutex
	initialized bool
}

var _ GPUReader = &NVML{}

// NewNVML returns an uninitialized NVML reader. Call Initialize before
// sampling; machines without the NVIDIA driver will fail there, and the
// caller should then run without a GPU reader.
func NewNVML() *NVML {
	return &NVML{}
}

// Initialize loads the NVML library.
func (n *NVML) Initialize() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.initialized {
		return nil
	}
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return errors.Errorf("sensors: cannot initialize NVML: %s", nvml.ErrorString(ret))
	}
	n.initialized = true
	return nil
}

// Temperature returns the primary GPU core temperature in degrees Celsius.
func (n *NVML) Temperature() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return 0, errors.New("sensors: NVML not initialized")
	}
	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		return 0, errors.Errorf("sensors: cannot get device handle: %s", nvml.ErrorString(ret))
	}
	temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, errors.Errorf("sensors: cannot read gpu temperature: %s", nvml.ErrorString(ret))
	}
	return int(temp), nil
}

// Shutdown unloads the NVML library.
func (n *NVML) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return nil
	}
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errors.Errorf("sensors: cannot shut down NVML: %s", nvml.ErrorString(ret))
	}
	n.initialized = false
	return nil
}
