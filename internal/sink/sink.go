// Package sink writes the single artifact produced by a successful exchange.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/p4chord/internal/protocol"
)

const (
	FormatWAV  = "wav"
	FormatMIDI = "midi"

	DefaultOutput = "chord.wav"
)

var ErrUnknownFormat = errors.New("sink: unknown artifact format")

// Sink persists one exchange result. Implementations overwrite path.
type Sink interface {
	Write(path string, resp protocol.ChordResponse, samples []int16, sampleRate int) error
}

// ForFormat returns the sink for a configured format name.
func ForFormat(format string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatWAV:
		return WAV{}, nil
	case FormatMIDI, "mid":
		return MIDI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatForPath guesses the format from a file extension, defaulting to WAV.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatWAV
	}
}

type outputFile interface {
	io.WriteSeeker
	io.Closer
}

var openOutput = func(path string) (outputFile, error) {
	return create(path)
}

// writeFile runs fill against a fresh file at path. The close error is
// reported, since a failed close can lose buffered data.
func writeFile(path string, fill func(f io.WriteSeeker) error) error {
	f, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sink: close %s: %w", path, err)
	}
	return nil
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sink: create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", path, err)
	}
	return f, nil
}
