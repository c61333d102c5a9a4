package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/projecthelios/HeliosManager/controller"
	"github.com/projecthelios/HeliosManager/system/persist"
	"github.com/projecthelios/HeliosManager/system/sensors"
	"github.com/projecthelios/HeliosManager/system/wmi"
)

// DefaultPath is the daemon configuration file.
const DefaultPath = "/etc/helios-manager/config.yaml"

// Duration supports "2s" style strings in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "config: invalid duration %q", s)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	if d == 0 {
		return "", nil
	}
	return time.Duration(d).String(), nil
}

// Thresholds configures the hysteresis band.
type Thresholds struct {
	CPUEnter int `yaml:"cpuEnter"`
	GPUEnter int `yaml:"gpuEnter"`
	CPUExit  int `yaml:"cpuExit"`
	GPUExit  int `yaml:"gpuExit"`
}

// Config is the daemon configuration.
type Config struct {
	Interval           Duration   `yaml:"interval"`
	Thresholds         Thresholds `yaml:"thresholds"`
	DesiredProfilePath string     `yaml:"desiredProfilePath"`
	DevicePath         string     `yaml:"devicePath"`
	WebAddress         string     `yaml:"webAddress"`
	CPUZoneTypes       []string   `yaml:"cpuZoneTypes"`
}

// Load reads the configuration file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Defaults()
			return cfg, nil
		}
		return nil, errors.Wrap(err, "config: cannot read file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config: cannot parse YAML")
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults fills in unset fields.
func (c *Config) Defaults() {
	if c.Interval == 0 {
		c.Interval = Duration(controller.DefaultInterval)
	}
	if c.Thresholds == (Thresholds{}) {
		c.Thresholds = Thresholds(controller.DefaultThresholds)
	}
	if c.DesiredProfilePath == "" {
		c.DesiredProfilePath = persist.DefaultPath
	}
	if c.DevicePath == "" {
		c.DevicePath = wmi.DefaultDevicePath
	}
	if c.WebAddress == "" {
		c.WebAddress = "127.0.0.1:9768"
	}
	if len(c.CPUZoneTypes) == 0 {
		c.CPUZoneTypes = append([]string(nil), sensors.DefaultZoneTypes...)
	}
}

// Validate checks the hysteresis band.
func (c *Config) Validate() error {
	if c.Thresholds.CPUExit >= c.Thresholds.CPUEnter {
		return errors.New("config: thresholds.cpuExit must be below thresholds.cpuEnter")
	}
	if c.Thresholds.GPUExit >= c.Thresholds.GPUEnter {
		return errors.New("config: thresholds.gpuExit must be below thresholds.gpuEnter")
	}
	return nil
}

// ControllerThresholds converts to the controller's threshold type.
func (c *Config) ControllerThresholds() controller.Thresholds {
	return controller.Thresholds(c.Thresholds)
}
