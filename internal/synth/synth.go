// Package synth turns response frequencies into a normalized waveform.
package synth

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultDuration   = 2.0
	DefaultSampleRate = 44100
)

var (
	ErrEmptySignal   = errors.New("synth: no frequencies to synthesize")
	ErrInvalidParams = errors.New("synth: invalid parameters")
)

// Synthesize sums one unit sine per frequency over duration seconds at
// sampleRate and scales the result so its peak magnitude is 1. The end point
// is excluded. A sum that is zero everywhere is returned as silence.
func Synthesize(freqs []float64, duration float64, sampleRate int) ([]float64, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptySignal
	}
	if duration <= 0 || sampleRate <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: duration=%v sample_rate=%d", ErrInvalidParams, duration, sampleRate)
	}
	n := int(duration * float64(sampleRate))
	if n <= 0 {
		return nil, fmt.Errorf("%w: duration=%v sample_rate=%d yields no samples", ErrInvalidParams, duration, sampleRate)
	}

	out := make([]float64, n)
	step := duration / float64(n)
	peak := 0.0
	for i := range out {
		t := float64(i) * step
		sum := 0.0
		for _, f := range freqs {
			sum += math.Sin(2 * math.Pi * f * t)
		}
		out[i] = sum
		if a := math.Abs(sum); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return out, nil
	}
	for i := range out {
		out[i] /= peak
	}
	return out, nil
}

// Quantize scales samples to signed 16-bit PCM.
func Quantize(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * math.MaxInt16)
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return out
}

// Hz widens wire frequencies for synthesis.
func Hz(freqs [4]uint32) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = float64(f)
	}
	return out
}
