package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-day-planner/internal/config"
	"github.com/penwyp/go-day-planner/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration sources
	configPath string
	dataDir    string
	storage    string
	timezone   string

	// Session day (YYYY-MM-DD), defaults to today in the configured timezone
	day string

	rootCmd = &cobra.Command{
		Use:   "go-day-planner [command]",
		Short: "Plan your day from speech or text, then review how it went",
		Long: `go-day-planner turns a spoken or typed description of your day into a
timeline of tasks, lets you tick them off, and scores your evening review
against the plan.

Plans and reviews are stored per day under the data directory, so every
command works on the same session until the day rolls over.

Examples:
  go-day-planner plan "9am team sync for one hour, then two hours writing the report"
  go-day-planner plan --listen 2                 # wait for two transcripts in the inbox
  go-day-planner show --output summary          # print today's plan as a summary
  go-day-planner toggle '#1'                     # mark the first task done
  go-day-planner today                           # interactive view, digits toggle tasks
  go-day-planner review "Team sync went well but I skipped the report"
  go-day-planner serve --listen 127.0.0.1:8080   # HTTP API for other front ends`,
		SilenceUsage: true,
		RunE:         runShow,
	}
)

const defaultLogFile = "~/" + config.AppDirName + "/logs/app.log"

func init() {
	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	// Configuration
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default ~/"+config.AppDirName+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Directory holding day records")
	rootCmd.PersistentFlags().StringVar(&storage, "storage", "",
		"Storage driver (json, sqlite)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone deciding the current day (e.g., Asia/Shanghai, UTC, auto)")
	rootCmd.PersistentFlags().StringVar(&day, "date", "",
		"Day to work on as YYYY-MM-DD (default today)")

	rootCmd.Flags().StringVarP(&showOutput, "output", "o", "table",
		"Output format ("+strings.Join(outputFormats(), ", ")+")")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig merges .env, the config file, DAYPLAN_* variables and flags,
// then initializes logging and the time provider.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env", filepath.Join(config.HomeDir(), ".env")); err != nil {
		return nil, err
	}

	path := config.DefaultPath()
	if configPath != "" {
		path = expandPath(configPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// Flags win over file and environment
	if dataDir != "" {
		cfg.DataDir = expandPath(dataDir)
	}
	if storage != "" {
		cfg.Storage = storage
	}
	if timezone == "auto" {
		timezone = "Local"
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = expandPath(defaultLogFile)
	}
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.SetupLogger(util.LoggerConfig{
		Level:   cfg.LogLevel,
		File:    logFile,
		Console: debug,
		Format:  util.LogFormat(cfg.LogFormat),
	}); err != nil {
		return nil, err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if err := ensureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	util.LogDebugf("config loaded: storage=%s data=%s tz=%s", cfg.Storage, cfg.DataDir, cfg.Timezone)
	return cfg, nil
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
