package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
device:
  driver: serial
  serial_port: /dev/ttyACM0
  baud_rate: 921600
storage:
  base_dir: /tmp/emg
  fused:
    enabled: true
    interval_ms: 50
poll_interval_ms: 5
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DriverSerial, cfg.Device.Driver)
	assert.Equal(t, "/dev/ttyACM0", cfg.Device.SerialPort)
	assert.Equal(t, 921600, cfg.Device.BaudRate)
	assert.Equal(t, "/tmp/emg", cfg.Storage.BaseDir)
	assert.True(t, cfg.Storage.Fused.Enabled)
	assert.Equal(t, 50, cfg.Storage.Fused.IntervalMs)
	assert.Equal(t, 5, cfg.PollIntervalMs)

	// untouched keys keep their defaults
	assert.Equal(t, 10000, cfg.Device.WaitTimeoutMs)
	assert.Equal(t, 200, cfg.Simulation.EMGRateHz)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "device:\n  driver: simulated\n")
	t.Setenv("EMGLOGGER_DEVICE_DRIVER", "serial")
	t.Setenv("EMGLOGGER_DEVICE_SERIAL_PORT", "/dev/ttyUSB3")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DriverSerial, cfg.Device.Driver)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Device.SerialPort)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "storage:\n  base_dir: from-file\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", "", "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--out", "from-flag", "--debug"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Storage.BaseDir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.LogOptions().Level)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "bad-driver.yaml", "device:\n  driver: bluetooth\n")
	_, err := LoadConfig(path, nil)
	assert.ErrorContains(t, err, "unknown device.driver")

	path = writeFile(t, dir, "no-port.yaml", "device:\n  driver: serial\n")
	_, err = LoadConfig(path, nil)
	assert.ErrorContains(t, err, "serial_port")
}

func TestDumpConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	want := DefaultConfig()
	want.Storage.BaseDir = "/data/sessions"
	require.NoError(t, DumpConfig(want, path, false))

	// refuses to clobber without overwrite
	assert.Error(t, DumpConfig(want, path, false))
	assert.NoError(t, DumpConfig(want, path, true))

	got, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteConfig_UsesSnakeCaseKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConfig(&buf, DefaultConfig()))
	assert.Contains(t, buf.String(), "poll_interval_ms: 1")
	assert.Contains(t, buf.String(), "wait_timeout_ms: 10000")
}
