package frame

import (
	"fmt"
	"strings"
)

const (
	Magic          = "P4"
	VersionLegacy  = "P2"
	VersionRevised = "P4"

	// HeaderLen covers magic, version, chord type and tonic.
	HeaderLen = 8
)

// Field declares one fixed-position field within a layout.
type Field struct {
	Name   string
	Offset int
	Width  int
}

// Layout selects the integer width used for the mask and frequency fields.
// The version marker discriminates layouts on the wire.
type Layout struct {
	Name    string
	Version string
	Width   int
}

var (
	Legacy  = Layout{Name: "legacy", Version: VersionLegacy, Width: 2}
	Revised = Layout{Name: "revised", Version: VersionRevised, Width: 4}
)

// Layouts lists supported layouts in version-sniffing order.
var Layouts = []Layout{Legacy, Revised}

func (l Layout) String() string { return l.Name }

// Size is the fixed frame length in bytes.
func (l Layout) Size() int {
	return HeaderLen + 5*l.Width
}

// Bits is the width of the integer fields in bits.
func (l Layout) Bits() int {
	return 8 * l.Width
}

// Max is the largest value an integer field can carry.
func (l Layout) Max() uint64 {
	return 1<<uint(l.Bits()) - 1
}

// Fields returns the ordered field table for the layout.
func (l Layout) Fields() []Field {
	fields := []Field{
		{Name: "magic", Offset: 0, Width: 2},
		{Name: "version", Offset: 2, Width: 2},
		{Name: "chord_type", Offset: 4, Width: 2},
		{Name: "tonic", Offset: 6, Width: 2},
		{Name: "chosen_notes", Offset: HeaderLen, Width: l.Width},
	}
	for i := 0; i < 4; i++ {
		fields = append(fields, Field{
			Name:   fmt.Sprintf("freq%d", i+1),
			Offset: l.freqOffset(i),
			Width:  l.Width,
		})
	}
	return fields
}

func (l Layout) freqOffset(i int) int {
	return HeaderLen + l.Width*(i+1)
}

func (l Layout) valid() bool {
	return l.Width == 2 || l.Width == 4
}

// ParseLayout resolves a configured layout name.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "legacy", "p2", "16":
		return Legacy, nil
	case "revised", "p4", "32", "":
		return Revised, nil
	default:
		return Layout{}, fmt.Errorf("frame: unknown layout %q", name)
	}
}

// LayoutForVersion returns the layout tagged by a version marker.
func LayoutForVersion(version string) (Layout, bool) {
	for _, l := range Layouts {
		if l.Version == version {
			return l, true
		}
	}
	return Layout{}, false
}
