package sink

import (
	"fmt"
	"io"
	"math"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/rs/zerolog/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	midiTempoBPM  = 120.0
	midiVelocity  = 100
	midiChannel   = 0
	midiTicks4th  = 960
	midiMinLength = 1
)

// MIDI writes the response frequencies as one held chord. The held length
// follows the synthesized sample count.
type MIDI struct{}

func (MIDI) Write(path string, resp protocol.ChordResponse, samples []int16, sampleRate int) error {
	keys := Keys(resp.Freqs)
	if len(keys) == 0 {
		return fmt.Errorf("sink: no audible frequencies in %v", resp.Freqs)
	}
	seconds := 0.0
	if sampleRate > 0 {
		seconds = float64(len(samples)) / float64(sampleRate)
	}
	ticks := uint32(math.Round(seconds * midiTempoBPM / 60 * midiTicks4th))
	if ticks < midiMinLength {
		ticks = midiMinLength
	}

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(string(resp.Tonic)+" "+string(resp.ChordType)))
	track.Add(0, smf.MetaTempo(midiTempoBPM))
	for _, k := range keys {
		track.Add(0, midi.NoteOn(midiChannel, k, midiVelocity))
	}
	for i, k := range keys {
		delta := uint32(0)
		if i == 0 {
			delta = ticks
		}
		track.Add(delta, midi.NoteOff(midiChannel, k))
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(midiTicks4th)
	if err := s.Add(track); err != nil {
		return fmt.Errorf("sink: build midi: %w", err)
	}

	err := writeFile(path, func(f io.WriteSeeker) error {
		if _, err := s.WriteTo(f); err != nil {
			return fmt.Errorf("sink: write midi %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Interface("keys", keys).
		Uint32("ticks", ticks).
		Msg("sink.midi")
	return nil
}

// Keys maps frequencies to the nearest MIDI key numbers, dropping silent voices
// and duplicates while keeping order.
func Keys(freqs [4]uint32) []uint8 {
	var out []uint8
	seen := map[uint8]bool{}
	for _, f := range freqs {
		if f == 0 {
			continue
		}
		k := math.Round(69 + 12*math.Log2(float64(f)/440))
		k = math.Max(0, math.Min(127, k))
		key := uint8(k)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
