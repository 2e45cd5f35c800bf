package logging

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"diagnostics", zerolog.TraceLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := parseLevel(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestEnvOverridesProfileDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogBypass, "true")

	cfg := defaultConfig(ProfileRuntime)
	WithLevel("debug")(&cfg)
	applyEnvOverrides(&cfg)

	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.False(t, cfg.Timestamp)
	assert.True(t, cfg.Bypass)
}

func TestNewBypassWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Config{Level: zerolog.InfoLevel, Bypass: true}, &buf)
	assert.Nil(t, closer)
	logger.Info().Str("layout", "revised").Msg("exchange")
	logger.Debug().Msg("dropped")

	out := buf.String()
	assert.Contains(t, out, `"layout":"revised"`)
	assert.Contains(t, out, `"app":"p4chord"`)
	assert.NotContains(t, out, "dropped")
}

func TestNewWithFileAlsoWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p4chord.log")
	var buf bytes.Buffer
	cfg := defaultConfig(ProfileTest)
	cfg.Bypass = true
	WithFile(path)(&cfg)

	logger, closer := New(cfg, &buf)
	require.NotNil(t, closer)
	logger.Info().Msg("to both")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
	assert.Contains(t, buf.String(), "to both")
}

func TestNewLeavesProcessFileWriterAlone(t *testing.T) {
	before := fileWriter
	dir := t.TempDir()
	cfg := defaultConfig(ProfileTest)
	cfg.Bypass = true

	var closers []io.Closer
	for _, name := range []string{"a.log", "b.log"} {
		WithFile(filepath.Join(dir, name))(&cfg)
		logger, closer := New(cfg, io.Discard)
		logger.Info().Msg(name)
		closers = append(closers, closer)
	}

	assert.Equal(t, before, fileWriter)
	for _, c := range closers {
		require.NoError(t, c.Close())
	}
	assert.FileExists(t, filepath.Join(dir, "a.log"))
	assert.FileExists(t, filepath.Join(dir, "b.log"))
}
