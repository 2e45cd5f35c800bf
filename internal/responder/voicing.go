package responder

import (
	"math"

	"github.com/danmuck/p4chord/internal/protocol"
)

const DefaultBaseHz = 55.0

// semitones above A within one octave.
var letterSemitones = map[byte]int{
	'A': 0, 'B': 2, 'C': 3, 'D': 5, 'E': 7, 'F': 8, 'G': 10,
}

var chordIntervals = map[protocol.ChordType][4]int{
	protocol.ChordMajor:          {0, 4, 7, 12},
	protocol.ChordMajorSeventh:   {0, 4, 7, 11},
	protocol.ChordMinor:          {0, 3, 7, 12},
	protocol.ChordMinorSeventh:   {0, 3, 7, 10},
	protocol.ChordDiminished:     {0, 3, 6, 9},
	protocol.ChordDominant:       {0, 4, 7, 10},
	protocol.ChordAugmentedSixth: {0, 4, 6, 10},
}

// Voicing maps a request to four frequencies.
type Voicing struct {
	// BaseHz is the pitch of A at octave 1.
	BaseHz float64
}

// Octaves returns the per-voice octave nibbles from the low 16 bits of mask,
// most significant nibble first.
func Octaves(mask uint64) [4]int {
	var out [4]int
	for i := range out {
		out[i] = int((mask >> (4 * (3 - i))) & 0xF)
	}
	return out
}

// Freqs voices req. Unknown symbols and zero octaves yield 0 Hz; results are
// clamped to max.
func (v Voicing) Freqs(req protocol.ChordRequest, max uint64) [4]uint32 {
	var out [4]uint32
	root, ok := letterSemitones[req.Tonic.Letter()]
	intervals, known := chordIntervals[req.ChordType]
	if !ok || !known {
		return out
	}
	switch req.Tonic.Accidental() {
	case 'f':
		root--
	case 's':
		root++
	}
	base := v.BaseHz
	if base <= 0 {
		base = DefaultBaseHz
	}
	for i, octave := range Octaves(req.ChosenNotes) {
		if octave == 0 {
			continue
		}
		semis := float64(root+intervals[i]) + 12*float64(octave-1)
		hz := math.Round(base * math.Pow(2, semis/12))
		if hz > float64(max) {
			hz = float64(max)
		}
		if hz > math.MaxUint32 {
			hz = math.MaxUint32
		}
		out[i] = uint32(hz)
	}
	return out
}
