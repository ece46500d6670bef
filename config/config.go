// Package config loads and saves emulator configuration as TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles      uint64 `toml:"max_cycles"`
		DefaultEntry   string `toml:"default_entry"`
		EnableTrace    bool   `toml:"enable_trace"`
		EnableMemTrace bool   `toml:"enable_mem_trace"`
		EnableStats    bool   `toml:"enable_stats"`
	} `toml:"execution"`

	// Display settings
	Display struct {
		ScaleFactor  int    `toml:"scale_factor"`
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`

	// Audio settings: the core only produces events; these flags are
	// forwarded to whatever host collaborator drains them.
	Audio struct {
		Enabled    bool `toml:"enabled"`
		BufferSize int  `toml:"buffer_size"`
	} `toml:"audio"`

	// Trace settings
	Trace struct {
		OutputFile    string `toml:"output_file"`
		FilterRegs    string `toml:"filter_registers"` // comma-separated: "R0,R1,PC"
		IncludeFlags  bool   `toml:"include_flags"`
		IncludeTiming bool   `toml:"include_timing"`
		MaxEntries    int    `toml:"max_entries"`
	} `toml:"trace"`

	// Statistics settings
	Statistics struct {
		OutputFile     string `toml:"output_file"`
		Format         string `toml:"format"` // json, csv
		CollectHotPath bool   `toml:"collect_hotpath"`
	} `toml:"statistics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.DefaultEntry = "0x0000"
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableMemTrace = false
	cfg.Execution.EnableStats = false

	cfg.Display.ScaleFactor = 2
	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "hex"

	cfg.Audio.Enabled = true
	cfg.Audio.BufferSize = 256

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.IncludeFlags = true
	cfg.Trace.IncludeTiming = true
	cfg.Trace.MaxEntries = 100000

	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"
	cfg.Statistics.CollectHotPath = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "chip16")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "chip16")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "chip16", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "chip16", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
