package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/danmuck/p4chord/internal/sink"
	"github.com/danmuck/p4chord/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExampleConfig(t *testing.T) {
	testlog.Start(t)

	cfg, err := loadAppConfig("ex.config.toml")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9494", cfg.Exchange.Destination)
	assert.Equal(t, 5*time.Second, cfg.Exchange.Timeout)
	assert.Equal(t, frame.Revised, cfg.Exchange.Layout)
	assert.True(t, cfg.Artifacts.Enabled)
	assert.Equal(t, "chord.wav", cfg.Artifacts.Output)
	assert.Equal(t, 44100, cfg.Artifacts.SampleRate)
	assert.Equal(t, ":9494", cfg.Responder.Listen)
	assert.Equal(t, 55.0, cfg.Responder.BaseHz)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "noop", cfg.TraceExporter)
	assert.Empty(t, cfg.MetricsListen)
	assert.Equal(t, 10.0, cfg.BatchRate)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := loadAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, exchange.DefaultConfig(), cfg.Exchange)
}

func TestLoadTOMLOverrides(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "p4chord.toml", `
destination = "10.0.0.9:7000"
timeout_ms = 250
layout = "legacy"
strict_grammar = true
output = "out/take.mid"

[responder]
base_hz = 110.0

[batch]
rate = 0.5
`)
	cfg, err := loadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9:7000", cfg.Exchange.Destination)
	assert.Equal(t, 250*time.Millisecond, cfg.Exchange.Timeout)
	assert.Equal(t, frame.Legacy, cfg.Exchange.Layout)
	assert.True(t, cfg.Exchange.StrictGrammar)
	assert.Equal(t, "out/take.mid", cfg.Artifacts.Output)
	assert.Equal(t, sink.FormatMIDI, cfg.Artifacts.WithDefaults().Format)
	assert.Equal(t, 110.0, cfg.Responder.BaseHz)
	assert.Equal(t, ":9494", cfg.Responder.Listen)
	assert.Equal(t, 0.5, cfg.BatchRate)
}

func TestLoadYAML(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "p4chord.yaml", `
destination: "192.168.1.4:9494"
timeout: 1500ms
write_artifact: false
responder:
  listen: "127.0.0.1:0"
log:
  level: debug
`)
	cfg, err := loadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.4:9494", cfg.Exchange.Destination)
	assert.Equal(t, 1500*time.Millisecond, cfg.Exchange.Timeout)
	assert.False(t, cfg.Artifacts.Enabled)
	assert.Equal(t, "127.0.0.1:0", cfg.Responder.Listen)
	assert.Equal(t, 55.0, cfg.Responder.BaseHz)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, frame.Revised, cfg.Exchange.Layout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad.toml":    `timeout = "soon"`,
		"layout.toml": `layout = "p8"`,
		"dest.toml":   `destination = ""`,
		"syntax.toml": `destination = `,
		"bad.yaml":    "timeout: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadAppConfig(writeFile(t, name, body))
			assert.Error(t, err)
		})
	}

	_, err := loadAppConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestGlobalsOverrideFile(t *testing.T) {
	path := writeFile(t, "p4chord.toml", `destination = "10.0.0.9:7000"`)
	g := Globals{
		Config:      path,
		Destination: "127.0.0.1:1",
		Timeout:     time.Second,
		Layout:      "legacy",
		Strict:      true,
	}
	cfg, err := g.resolve()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1", cfg.Exchange.Destination)
	assert.Equal(t, time.Second, cfg.Exchange.Timeout)
	assert.Equal(t, frame.Legacy, cfg.Exchange.Layout)
	assert.True(t, cfg.Exchange.StrictGrammar)

	g.Layout = "p9"
	_, err = g.resolve()
	assert.Equal(t, exitConfig, exitCode(err))
}
