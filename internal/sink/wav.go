package sink

import (
	"fmt"
	"io"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
)

const (
	wavBitDepth  = 16
	wavChannels  = 1
	wavFormatPCM = 1
)

// WAV writes mono 16-bit PCM.
type WAV struct{}

func (WAV) Write(path string, resp protocol.ChordResponse, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sink: invalid sample rate %d", sampleRate)
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	err := writeFile(path, func(f io.WriteSeeker) error {
		enc := wav.NewEncoder(f, sampleRate, wavBitDepth, wavChannels, wavFormatPCM)
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("sink: write wav %s: %w", path, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("sink: finalize wav %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Int("samples", len(samples)).
		Int("sample_rate", sampleRate).
		Interface("freqs", resp.Freqs).
		Msg("sink.wav")
	return nil
}
