package console

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/danmuck/p4chord/internal/sink"
	"github.com/danmuck/p4chord/internal/synth"
)

// Artifacts controls what is written after a decoded exchange.
type Artifacts struct {
	Enabled    bool
	Output     string
	Format     string
	Duration   float64
	SampleRate int
}

func DefaultArtifacts() Artifacts {
	return Artifacts{
		Enabled:    true,
		Output:     sink.DefaultOutput,
		Format:     sink.FormatWAV,
		Duration:   synth.DefaultDuration,
		SampleRate: synth.DefaultSampleRate,
	}
}

func (a Artifacts) WithDefaults() Artifacts {
	def := DefaultArtifacts()
	if strings.TrimSpace(a.Output) == "" {
		a.Output = def.Output
	}
	if strings.TrimSpace(a.Format) == "" {
		a.Format = sink.FormatForPath(a.Output)
	}
	if a.Duration <= 0 {
		a.Duration = def.Duration
	}
	if a.SampleRate <= 0 {
		a.SampleRate = def.SampleRate
	}
	return a
}

// PathFor returns the artifact path for the n-th exchange of a batch. n <= 0
// means a single exchange and returns Output unchanged.
func (a Artifacts) PathFor(n int) string {
	if n <= 0 {
		return a.Output
	}
	ext := filepath.Ext(a.Output)
	base := strings.TrimSuffix(a.Output, ext)
	return fmt.Sprintf("%s-%03d%s", base, n, ext)
}

// Write synthesizes res and stores it at path.
func (a Artifacts) Write(path string, res exchange.Result) error {
	out, err := sink.ForFormat(a.Format)
	if err != nil {
		return err
	}
	samples, err := synth.Synthesize(synth.Hz(res.Response.Freqs), a.Duration, a.SampleRate)
	if err != nil {
		return err
	}
	return out.Write(path, res.Response, synth.Quantize(samples), a.SampleRate)
}
