package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	AppName           = "emg-logger"
	DefaultConfigName = "config"
	EnvPrefix         = "EMGLOGGER"
	ConfigEnv         = EnvPrefix + "_CONFIG"

	DriverSimulated = "simulated"
	DriverSerial    = "serial"
)

var userHomeDir, _ = os.UserHomeDir()

// DefaultConfigPath is where `init` writes the configuration template.
var DefaultConfigPath = filepath.Join(userHomeDir, ".config", AppName, DefaultConfigName+".yaml")

var configSearchPaths = []string{
	filepath.Join(userHomeDir, ".config", AppName),
	"/etc/" + AppName,
	"./",
}

// ─── Device / driver configs ────────────────────────────────────────────

type DeviceConfig struct {
	Driver        string `yaml:"driver" mapstructure:"driver"`
	AppID         string `yaml:"app_id" mapstructure:"app_id"`
	WaitTimeoutMs int    `yaml:"wait_timeout_ms" mapstructure:"wait_timeout_ms"`
	SerialPort    string `yaml:"serial_port" mapstructure:"serial_port"`
	BaudRate      int    `yaml:"baud_rate" mapstructure:"baud_rate"`
	DataBits      int    `yaml:"data_bits" mapstructure:"data_bits"`
	StopBits      int    `yaml:"stop_bits" mapstructure:"stop_bits"`
	Parity        string `yaml:"parity" mapstructure:"parity"`
}

type SimulationConfig struct {
	EMGRateHz       int     `yaml:"emg_rate_hz" mapstructure:"emg_rate_hz"`
	IMURateHz       int     `yaml:"imu_rate_hz" mapstructure:"imu_rate_hz"`
	ReconnectEveryS int     `yaml:"reconnect_every_s" mapstructure:"reconnect_every_s"`
	Seed            int64   `yaml:"seed" mapstructure:"seed"`
	PoseOnReconnect bool    `yaml:"pose_on_reconnect" mapstructure:"pose_on_reconnect"`
	DurationSeconds int     `yaml:"duration_seconds" mapstructure:"duration_seconds"`
	AngularRateDegS float64 `yaml:"angular_rate_deg_s" mapstructure:"angular_rate_deg_s"`
}

// ─── Storage configs ────────────────────────────────────────────────────

type FusedStorageConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	IntervalMs int  `yaml:"interval_ms" mapstructure:"interval_ms"`
}

type StorageConfig struct {
	BaseDir  string             `yaml:"base_dir" mapstructure:"base_dir"`
	Manifest bool               `yaml:"manifest" mapstructure:"manifest"`
	Fused    FusedStorageConfig `yaml:"fused" mapstructure:"fused"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	StatsEvery int    `yaml:"stats_every_s" mapstructure:"stats_every_s"`
}

// Config is the top-level structure of config.yaml.
type Config struct {
	Device         DeviceConfig     `yaml:"device" mapstructure:"device"`
	Simulation     SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Storage        StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Logging        LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	PollIntervalMs int              `yaml:"poll_interval_ms" mapstructure:"poll_interval_ms"`
	Debug          bool             `yaml:"debug" mapstructure:"debug"`
}

// WaitTimeout is the device discovery budget.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Device.WaitTimeoutMs) * time.Millisecond
}

// PollInterval is the budget handed to each hub run.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// LogOptions derives the logger options, honouring the debug switch.
func (c *Config) LogOptions() LogOptions {
	level := c.Logging.Level
	if c.Debug {
		level = "debug"
	}
	return LogOptions{
		Level:      level,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}

// Validate rejects configurations the recorder cannot run with.
func (c *Config) Validate() error {
	switch c.Device.Driver {
	case DriverSimulated:
	case DriverSerial:
		if c.Device.SerialPort == "" {
			return errors.New("device.serial_port is required for the serial driver")
		}
	default:
		return fmt.Errorf("unknown device.driver %q (want %q or %q)", c.Device.Driver, DriverSimulated, DriverSerial)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs)
	}
	if c.Storage.Fused.Enabled && c.Storage.Fused.IntervalMs <= 0 {
		return fmt.Errorf("storage.fused.interval_ms must be positive, got %d", c.Storage.Fused.IntervalMs)
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Driver:        DriverSimulated,
			AppID:         "com.example.emg-logger",
			WaitTimeoutMs: 10000,
			BaudRate:      115200,
			DataBits:      8,
			StopBits:      1,
			Parity:        "N",
		},
		Simulation: SimulationConfig{
			EMGRateHz:       200,
			IMURateHz:       50,
			Seed:            1,
			AngularRateDegS: 30,
		},
		Storage: StorageConfig{
			BaseDir: ".",
			Fused: FusedStorageConfig{
				IntervalMs: 20,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			StatsEvery: 5,
		},
		PollIntervalMs: 1,
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("device.driver", cfg.Device.Driver)
	v.SetDefault("device.app_id", cfg.Device.AppID)
	v.SetDefault("device.wait_timeout_ms", cfg.Device.WaitTimeoutMs)
	v.SetDefault("device.serial_port", cfg.Device.SerialPort)
	v.SetDefault("device.baud_rate", cfg.Device.BaudRate)
	v.SetDefault("device.data_bits", cfg.Device.DataBits)
	v.SetDefault("device.stop_bits", cfg.Device.StopBits)
	v.SetDefault("device.parity", cfg.Device.Parity)
	v.SetDefault("simulation.emg_rate_hz", cfg.Simulation.EMGRateHz)
	v.SetDefault("simulation.imu_rate_hz", cfg.Simulation.IMURateHz)
	v.SetDefault("simulation.reconnect_every_s", cfg.Simulation.ReconnectEveryS)
	v.SetDefault("simulation.seed", cfg.Simulation.Seed)
	v.SetDefault("simulation.pose_on_reconnect", cfg.Simulation.PoseOnReconnect)
	v.SetDefault("simulation.duration_seconds", cfg.Simulation.DurationSeconds)
	v.SetDefault("simulation.angular_rate_deg_s", cfg.Simulation.AngularRateDegS)
	v.SetDefault("storage.base_dir", cfg.Storage.BaseDir)
	v.SetDefault("storage.manifest", cfg.Storage.Manifest)
	v.SetDefault("storage.fused.enabled", cfg.Storage.Fused.Enabled)
	v.SetDefault("storage.fused.interval_ms", cfg.Storage.Fused.IntervalMs)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.stats_every_s", cfg.Logging.StatsEvery)
	v.SetDefault("poll_interval_ms", cfg.PollIntervalMs)
	v.SetDefault("debug", cfg.Debug)
}

// flagBindings maps command-line flags onto config keys.
var flagBindings = map[string]string{
	"debug":  "debug",
	"driver": "device.driver",
	"port":   "device.serial_port",
	"out":    "storage.base_dir",
	"fused":  "storage.fused.enabled",
}

// LoadConfig resolves the configuration in this order of precedence:
// command-line flags, EMGLOGGER_* environment variables, the config file
// (path, then $EMGLOGGER_CONFIG, then the search paths), built-in defaults.
// flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	explicit := true
	switch {
	case path != "":
		v.SetConfigFile(path)
	case os.Getenv(ConfigEnv) != "":
		v.SetConfigFile(os.Getenv(ConfigEnv))
	default:
		explicit = false
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		for _, p := range configSearchPaths {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		L().Debug("no config file found, using defaults")
	} else {
		L().Debug("using config file: %s", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// WriteConfig encodes cfg as YAML.
func WriteConfig(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// DumpConfig writes cfg to path, creating parent directories. An existing
// file is only replaced when overwrite is set.
func DumpConfig(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists (use --yes to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if err := WriteConfig(w, cfg); err != nil {
		return err
	}
	return w.Flush()
}
