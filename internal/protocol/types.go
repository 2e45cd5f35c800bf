package protocol

import (
	"fmt"
	"strings"
)

// EtherType is the Ethernet type the in-network responder binds the chord header to.
const EtherType uint16 = 0x1234

// DefaultDestinationMAC is the responder address used on the lab switch.
const DefaultDestinationMAC = "00:04:00:00:00:00"

// Note is a two-character tonic symbol: letter A..G followed by f, n or s.
type Note string

const (
	NoteAf Note = "Af"
	NoteAn Note = "An"
	NoteAs Note = "As"
	NoteBf Note = "Bf"
	NoteBn Note = "Bn"
	NoteBs Note = "Bs"
	NoteCf Note = "Cf"
	NoteCn Note = "Cn"
	NoteCs Note = "Cs"
	NoteDf Note = "Df"
	NoteDn Note = "Dn"
	NoteDs Note = "Ds"
	NoteEf Note = "Ef"
	NoteEn Note = "En"
	NoteEs Note = "Es"
	NoteFf Note = "Ff"
	NoteFn Note = "Fn"
	NoteFs Note = "Fs"
	NoteGf Note = "Gf"
	NoteGn Note = "Gn"
	NoteGs Note = "Gs"
)

// Notes lists every accepted tonic in match order.
var Notes = []Note{
	NoteAf, NoteAn, NoteAs,
	NoteBf, NoteBn, NoteBs,
	NoteCf, NoteCn, NoteCs,
	NoteDf, NoteDn, NoteDs,
	NoteEf, NoteEn, NoteEs,
	NoteFf, NoteFn, NoteFs,
	NoteGf, NoteGn, NoteGs,
}

func (n Note) Valid() bool {
	for _, known := range Notes {
		if n == known {
			return true
		}
	}
	return false
}

// Letter returns the note name without its accidental.
func (n Note) Letter() byte {
	if len(n) != 2 {
		return 0
	}
	return n[0]
}

// Accidental returns 'f', 'n' or 's'.
func (n Note) Accidental() byte {
	if len(n) != 2 {
		return 0
	}
	return n[1]
}

// ChordType is a two-character chord quality code.
type ChordType string

const (
	ChordMajor          ChordType = "M_"
	ChordMajorSeventh   ChordType = "M7"
	ChordMinor          ChordType = "m_"
	ChordMinorSeventh   ChordType = "m7"
	ChordDiminished     ChordType = "di"
	ChordDominant       ChordType = "do"
	ChordAugmentedSixth ChordType = "a6"
)

// ChordTypes lists every accepted chord code in match order.
var ChordTypes = []ChordType{
	ChordMajor,
	ChordMajorSeventh,
	ChordMinor,
	ChordMinorSeventh,
	ChordDiminished,
	ChordDominant,
	ChordAugmentedSixth,
}

func (c ChordType) Valid() bool {
	for _, known := range ChordTypes {
		if c == known {
			return true
		}
	}
	return false
}

// ChordTypeList renders the codes the way operator-facing errors quote them.
func ChordTypeList() string {
	quoted := make([]string, len(ChordTypes))
	for i, ct := range ChordTypes {
		quoted[i] = "'" + string(ct) + "'"
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

// ChordRequest is one validated chord description ready for encoding.
type ChordRequest struct {
	Tonic       Note
	ChordType   ChordType
	ChosenNotes uint64
}

// Validate checks the symbol invariants. Mask width is checked by the frame codec.
func (r ChordRequest) Validate() error {
	if !r.Tonic.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNote, string(r.Tonic))
	}
	if !r.ChordType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChordType, string(r.ChordType))
	}
	return nil
}

// ChordResponse is the responder's answer. Header fields are echoed as received.
type ChordResponse struct {
	Tonic       Note
	ChordType   ChordType
	ChosenNotes uint64
	Freqs       [4]uint32
}

// Hz returns the frequencies as float64 in positional order.
func (r ChordResponse) Hz() []float64 {
	out := make([]float64, len(r.Freqs))
	for i, f := range r.Freqs {
		out[i] = float64(f)
	}
	return out
}
