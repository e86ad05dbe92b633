// Package config loads the planner configuration from a YAML file, a .env file
// and DAYPLAN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-day-planner/internal/core/review"
	"github.com/penwyp/go-day-planner/internal/data/store"
)

// Environment variables that override file values.
const (
	EnvDataDir  = "DAYPLAN_DATA_DIR"
	EnvStorage  = "DAYPLAN_STORAGE"
	EnvListen   = "DAYPLAN_LISTEN"
	EnvTimezone = "DAYPLAN_TIMEZONE"
	EnvInboxDir = "DAYPLAN_INBOX_DIR"
)

// AppDirName is the per-user directory under $HOME.
const AppDirName = ".go-day-planner"

// Config is the top-level application configuration.
type Config struct {
	// DataDir holds day records (days/ for json, planner.db for sqlite).
	DataDir string `yaml:"data_dir"`

	// Storage selects the repository driver: "json" or "sqlite".
	Storage string `yaml:"storage"`

	// Timezone is the IANA zone deciding the day key; "Local" uses the system zone.
	Timezone string `yaml:"timezone"`

	// Listen is the HTTP address for serve.
	Listen string `yaml:"listen"`

	// InboxDir is watched for transcript files when listening for speech.
	InboxDir string `yaml:"inbox_dir"`

	// Rollover is the cron schedule that starts a new day in serve.
	Rollover string `yaml:"rollover"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	// LogFormat is "text" or "json"
	LogFormat string `yaml:"log_format"`

	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	AnalyzeTimeout  time.Duration `yaml:"analyze_timeout"`

	// DefaultDuration is the task length in minutes when a plan names none.
	DefaultDuration int `yaml:"default_duration"`

	Weights review.Weights `yaml:"weights"`
}

// HomeDir returns ~/.go-day-planner, falling back to the working directory.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppDirName
	}
	return filepath.Join(home, AppDirName)
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	base := HomeDir()
	return &Config{
		DataDir:         filepath.Join(base, "data"),
		Storage:         store.DriverJSON,
		Timezone:        "Local",
		Listen:          "127.0.0.1:8080",
		InboxDir:        filepath.Join(base, "inbox"),
		Rollover:        "0 0 * * *",
		LogLevel:        "info",
		LogFile:         filepath.Join(base, "logs", "app.log"),
		LogFormat:       "text",
		GenerateTimeout: 5 * time.Second,
		AnalyzeTimeout:  5 * time.Second,
		DefaultDuration: 60,
		Weights:         review.DefaultWeights(),
	}
}

// LoadDotEnv loads the given .env files, skipping those that do not exist.
// Variables already present in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads path (a missing file means defaults), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DAYPLAN_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvDataDir, &c.DataDir)
	set(EnvStorage, &c.Storage)
	set(EnvListen, &c.Listen)
	set(EnvTimezone, &c.Timezone)
	set(EnvInboxDir, &c.InboxDir)
}

// Validate fills defaults and rejects values the application cannot use.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	c.DataDir = expandHome(c.DataDir)
	c.InboxDir = expandHome(c.InboxDir)
	c.LogFile = expandHome(c.LogFile)

	c.Storage = strings.ToLower(c.Storage)
	switch c.Storage {
	case "":
		c.Storage = d.Storage
	case store.DriverJSON, store.DriverSQLite:
	default:
		return fmt.Errorf("unsupported storage %q (want %s or %s)", c.Storage, store.DriverJSON, store.DriverSQLite)
	}

	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.InboxDir == "" {
		c.InboxDir = d.InboxDir
	}
	if c.Rollover == "" {
		c.Rollover = d.Rollover
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	switch c.LogFormat {
	case "":
		c.LogFormat = d.LogFormat
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (want text or json)", c.LogFormat)
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = d.GenerateTimeout
	}
	if c.AnalyzeTimeout <= 0 {
		c.AnalyzeTimeout = d.AnalyzeTimeout
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = d.DefaultDuration
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return nil
}

// String renders the effective configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "config: " + strconv.Quote(err.Error())
	}
	return string(data)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
