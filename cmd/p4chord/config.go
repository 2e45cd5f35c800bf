package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/p4chord/internal/console"
	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/danmuck/p4chord/internal/responder"
	"gopkg.in/yaml.v3"
)

const defaultBatchRate = 10.0

// appConfig is everything a command needs after file and flag layering.
type appConfig struct {
	Exchange  exchange.Config
	Artifacts console.Artifacts
	Responder responder.Config

	LogLevel      string
	LogFile       string
	MetricsListen string
	TraceExporter string
	BatchRate     float64
}

func defaultAppConfig() appConfig {
	return appConfig{
		Exchange:  exchange.DefaultConfig(),
		Artifacts: console.DefaultArtifacts(),
		Responder: responder.DefaultConfig(),
		BatchRate: defaultBatchRate,
	}
}

type fileConfig struct {
	Destination   string  `toml:"destination" yaml:"destination"`
	Interface     string  `toml:"interface" yaml:"interface"`
	Timeout       string  `toml:"timeout" yaml:"timeout"`
	TimeoutMS     int64   `toml:"timeout_ms" yaml:"timeout_ms"`
	Layout        string  `toml:"layout" yaml:"layout"`
	StrictGrammar bool    `toml:"strict_grammar" yaml:"strict_grammar"`
	WriteArtifact bool    `toml:"write_artifact" yaml:"write_artifact"`
	Output        string  `toml:"output" yaml:"output"`
	Format        string  `toml:"format" yaml:"format"`
	Duration      float64 `toml:"duration" yaml:"duration"`
	SampleRate    int     `toml:"sample_rate" yaml:"sample_rate"`

	Responder struct {
		Listen string  `toml:"listen" yaml:"listen"`
		BaseHz float64 `toml:"base_hz" yaml:"base_hz"`
	} `toml:"responder" yaml:"responder"`

	Log struct {
		Level string `toml:"level" yaml:"level"`
		File  string `toml:"file" yaml:"file"`
	} `toml:"log" yaml:"log"`

	Metrics struct {
		Listen string `toml:"listen" yaml:"listen"`
	} `toml:"metrics" yaml:"metrics"`

	Trace struct {
		Exporter string `toml:"exporter" yaml:"exporter"`
	} `toml:"trace" yaml:"trace"`

	Batch struct {
		Rate float64 `toml:"rate" yaml:"rate"`
	} `toml:"batch" yaml:"batch"`
}

// definedFunc reports whether a dotted key path was present in the file.
type definedFunc func(key ...string) bool

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, defined, err := decodeFile(path)
	if err != nil {
		return appConfig{}, err
	}

	if defined("destination") {
		cfg.Exchange.Destination = strings.TrimSpace(raw.Destination)
	}
	if defined("interface") {
		cfg.Exchange.Interface = strings.TrimSpace(raw.Interface)
	}
	if defined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return appConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Exchange.Timeout = d
	}
	if defined("timeout_ms") {
		cfg.Exchange.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}
	if defined("layout") {
		layout, err := frame.ParseLayout(raw.Layout)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Exchange.Layout = layout
	}
	if defined("strict_grammar") {
		cfg.Exchange.StrictGrammar = raw.StrictGrammar
	}

	if defined("write_artifact") {
		cfg.Artifacts.Enabled = raw.WriteArtifact
	}
	if defined("output") {
		cfg.Artifacts.Output = strings.TrimSpace(raw.Output)
		if !defined("format") {
			cfg.Artifacts.Format = ""
		}
	}
	if defined("format") {
		cfg.Artifacts.Format = strings.TrimSpace(raw.Format)
	}
	if defined("duration") {
		cfg.Artifacts.Duration = raw.Duration
	}
	if defined("sample_rate") {
		cfg.Artifacts.SampleRate = raw.SampleRate
	}

	if defined("responder", "listen") {
		cfg.Responder.Listen = strings.TrimSpace(raw.Responder.Listen)
	}
	if defined("responder", "base_hz") {
		cfg.Responder.BaseHz = raw.Responder.BaseHz
	}
	if defined("log", "level") {
		cfg.LogLevel = strings.TrimSpace(raw.Log.Level)
	}
	if defined("log", "file") {
		cfg.LogFile = strings.TrimSpace(raw.Log.File)
	}
	if defined("metrics", "listen") {
		cfg.MetricsListen = strings.TrimSpace(raw.Metrics.Listen)
	}
	if defined("trace", "exporter") {
		cfg.TraceExporter = strings.TrimSpace(raw.Trace.Exporter)
	}
	if defined("batch", "rate") {
		cfg.BatchRate = raw.Batch.Rate
	}

	if err := cfg.Exchange.Validate(); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func decodeFile(path string) (fileConfig, definedFunc, error) {
	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fileConfig{}, nil, fmt.Errorf("load p4chord config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, nil, fmt.Errorf("load p4chord config: %w", err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return fileConfig{}, nil, fmt.Errorf("load p4chord config: %w", err)
		}
		return raw, yamlDefined(tree), nil
	default:
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return fileConfig{}, nil, fmt.Errorf("load p4chord config: %w", err)
		}
		return raw, meta.IsDefined, nil
	}
}

func yamlDefined(tree map[string]any) definedFunc {
	return func(key ...string) bool {
		var node any = tree
		for _, k := range key {
			m, ok := node.(map[string]any)
			if !ok {
				return false
			}
			node, ok = m[k]
			if !ok {
				return false
			}
		}
		return true
	}
}
