package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/projecthelios/HeliosManager/controller"
	"github.com/projecthelios/HeliosManager/system/persist"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	require.Equal(t, controller.DefaultInterval, time.Duration(cfg.Interval))
	require.Equal(t, controller.DefaultThresholds, cfg.ControllerThresholds())
	require.Equal(t, persist.DefaultPath, cfg.DesiredProfilePath)
	require.NotEmpty(t, cfg.CPUZoneTypes)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
interval: 5s
thresholds:
  cpuEnter: 90
  gpuEnter: 80
  cpuExit: 85
  gpuExit: 75
desiredProfilePath: /tmp/desired
cpuZoneTypes:
  - soc_thermal
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, time.Second*5, time.Duration(cfg.Interval))
	require.Equal(t, controller.Thresholds{CPUEnter: 90, GPUEnter: 80, CPUExit: 85, GPUExit: 75}, cfg.ControllerThresholds())
	require.Equal(t, "/tmp/desired", cfg.DesiredProfilePath)
	require.Equal(t, []string{"soc_thermal"}, cfg.CPUZoneTypes)

	// unset fields still take defaults
	require.NotEmpty(t, cfg.DevicePath)
	require.NotEmpty(t, cfg.WebAddress)
}

func TestLoadRejectsInvertedBand(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  cpuEnter: 80
  gpuEnter: 70
  cpuExit: 80
  gpuExit: 65
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "interval: soon\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "interval: [\n")
	_, err := Load(path)
	require.Error(t, err)
}
