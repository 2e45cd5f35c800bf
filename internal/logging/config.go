// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLogLevel     = "P4CHORD_LOG_LEVEL"
	EnvLogTimestamp = "P4CHORD_LOG_TIMESTAMP"
	EnvLogNoColor   = "P4CHORD_LOG_NOCOLOR"
	EnvLogBypass    = "P4CHORD_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger configuration.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	// Bypass writes raw JSON lines instead of the console format.
	Bypass bool
	File   FileConfig
}

// FileConfig enables an additional rotating log file when Path is set.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Option adjusts the profile defaults before env overrides are applied.
type Option func(*Config)

func WithLevel(raw string) Option {
	return func(cfg *Config) {
		if lvl, ok := parseLevel(raw); ok {
			cfg.Level = lvl
		}
	}
}

func WithFile(path string) Option {
	return func(cfg *Config) {
		cfg.File.Path = strings.TrimSpace(path)
	}
}

var (
	configureOnce sync.Once
	fileWriter    io.Closer
)

func ConfigureRuntime(opts ...Option) {
	Configure(ProfileRuntime, opts...)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the global logger once per process.
func Configure(profile Profile, opts ...Option) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		for _, opt := range opts {
			opt(&cfg)
		}
		applyEnvOverrides(&cfg)
		logger, closer := New(cfg, os.Stderr)
		log.Logger = logger
		fileWriter = closer
		zerolog.SetGlobalLevel(cfg.Level)
	})
}

// Close flushes and closes the rotating log file, if one was opened.
func Close() error {
	if fileWriter == nil {
		return nil
	}
	return fileWriter.Close()
}

// New builds a logger for cfg writing console output to out. The closer is
// nil unless cfg.File.Path opened a rotating file; the caller owns it.
func New(cfg Config, out io.Writer) (zerolog.Logger, io.Closer) {
	var w io.Writer = out
	var closer io.Closer
	if !cfg.Bypass {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	if cfg.File.Path != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		closer = rotating
		w = zerolog.MultiLevelWriter(w, rotating)
	}
	ctx := zerolog.New(w).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Str("app", "p4chord").Logger(), closer
}

func defaultConfig(profile Profile) Config {
	cfg := Config{
		File: FileConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		cfg.Bypass = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
