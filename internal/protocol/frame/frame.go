package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/p4chord/internal/protocol"
)

// Header is the fixed prefix shared by every layout.
type Header struct {
	Magic     string
	Version   string
	ChordType protocol.ChordType
	Tonic     protocol.Note
}

// Frame is one complete wire record.
type Frame struct {
	Layout      Layout
	Header      Header
	ChosenNotes uint64
	Freqs       [4]uint32
}

// New builds an outbound request frame with zeroed frequencies.
func New(layout Layout, req protocol.ChordRequest) Frame {
	return Frame{
		Layout: layout,
		Header: Header{
			Magic:     Magic,
			Version:   layout.Version,
			ChordType: req.ChordType,
			Tonic:     req.Tonic,
		},
		ChosenNotes: req.ChosenNotes,
	}
}

// Response returns the frame's contents as a chord response.
func (f Frame) Response() protocol.ChordResponse {
	return protocol.ChordResponse{
		Tonic:       f.Header.Tonic,
		ChordType:   f.Header.ChordType,
		ChosenNotes: f.ChosenNotes,
		Freqs:       f.Freqs,
	}
}

// Request returns the header fields as a chord request.
func (f Frame) Request() protocol.ChordRequest {
	return protocol.ChordRequest{
		Tonic:       f.Header.Tonic,
		ChordType:   f.Header.ChordType,
		ChosenNotes: f.ChosenNotes,
	}
}

// MarshalBinary encodes the frame. Integer fields that exceed the layout width
// fail with *protocol.FieldOverflowError.
func (f Frame) MarshalBinary() ([]byte, error) {
	l := f.Layout
	if !l.valid() {
		return nil, ErrInvalidLayout
	}
	if len(f.Header.ChordType) != 2 || len(f.Header.Tonic) != 2 {
		return nil, fmt.Errorf("frame: header symbols must be 2 bytes: chord_type=%q tonic=%q", f.Header.ChordType, f.Header.Tonic)
	}
	if f.ChosenNotes > l.Max() {
		return nil, &protocol.FieldOverflowError{Field: "chosen_notes", Value: f.ChosenNotes, Bits: l.Bits()}
	}
	for i, freq := range f.Freqs {
		if uint64(freq) > l.Max() {
			return nil, &protocol.FieldOverflowError{Field: fmt.Sprintf("freq%d", i+1), Value: uint64(freq), Bits: l.Bits()}
		}
	}

	buf := make([]byte, l.Size())
	EncodeHeader(buf, f.Header)
	putUint(buf[HeaderLen:], l.Width, f.ChosenNotes)
	for i, freq := range f.Freqs {
		off := l.freqOffset(i)
		putUint(buf[off:], l.Width, uint64(freq))
	}
	return buf, nil
}

// Unmarshal decodes buf as a frame of the given layout. Bytes beyond the frame
// size (link-layer padding) are ignored.
func Unmarshal(layout Layout, buf []byte) (Frame, error) {
	if !layout.valid() {
		return Frame{}, ErrInvalidLayout
	}
	if len(buf) < layout.Size() {
		return Frame{}, &FrameFormatError{Layout: layout.Name, Len: len(buf), Err: ErrTruncated}
	}
	h := DecodeHeader(buf)
	if h.Magic != Magic {
		return Frame{}, &FrameFormatError{Layout: layout.Name, Len: len(buf), Err: ErrInvalidMagic}
	}
	if h.Version != layout.Version {
		return Frame{}, &FrameFormatError{Layout: layout.Name, Len: len(buf), Err: ErrUnsupportedVersion}
	}

	f := Frame{
		Layout:      layout,
		Header:      h,
		ChosenNotes: getUint(buf[HeaderLen:], layout.Width),
	}
	for i := range f.Freqs {
		f.Freqs[i] = uint32(getUint(buf[layout.freqOffset(i):], layout.Width))
	}
	return f, nil
}

// Encode builds the request frame bytes for req.
func Encode(layout Layout, req protocol.ChordRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return New(layout, req).MarshalBinary()
}

// EncodeResponse builds a responder frame carrying resp's header and frequencies.
func EncodeResponse(layout Layout, resp protocol.ChordResponse) ([]byte, error) {
	f := New(layout, protocol.ChordRequest{
		Tonic:       resp.Tonic,
		ChordType:   resp.ChordType,
		ChosenNotes: resp.ChosenNotes,
	})
	f.Freqs = resp.Freqs
	return f.MarshalBinary()
}

// Decode validates the frame markers and extracts the response.
// Header symbols are echoed without re-validation.
func Decode(layout Layout, buf []byte) (protocol.ChordResponse, error) {
	f, err := Unmarshal(layout, buf)
	if err != nil {
		return protocol.ChordResponse{}, err
	}
	return f.Response(), nil
}

// Answers reports whether reply echoes req under layout. Replies that do not
// decode are reported as answers so the caller surfaces the format error.
func Answers(layout Layout, req protocol.ChordRequest, reply []byte) bool {
	f, err := Unmarshal(layout, reply)
	if err != nil {
		return true
	}
	return f.Request() == req
}

// DecodeAny picks the layout from the version marker before decoding.
func DecodeAny(buf []byte) (Frame, error) {
	if len(buf) < HeaderLen {
		return Frame{}, &FrameFormatError{Layout: "unknown", Len: len(buf), Err: ErrTruncated}
	}
	h := DecodeHeader(buf)
	if h.Magic != Magic {
		return Frame{}, &FrameFormatError{Layout: "unknown", Len: len(buf), Err: ErrInvalidMagic}
	}
	layout, ok := LayoutForVersion(h.Version)
	if !ok {
		return Frame{}, &FrameFormatError{Layout: "unknown", Len: len(buf), Err: ErrUnsupportedVersion}
	}
	return Unmarshal(layout, buf)
}

// EncodeHeader writes h into the first HeaderLen bytes of buf.
func EncodeHeader(buf []byte, h Header) {
	copy(buf[0:2], h.Magic)
	copy(buf[2:4], h.Version)
	copy(buf[4:6], string(h.ChordType))
	copy(buf[6:8], string(h.Tonic))
}

// DecodeHeader reads the fixed prefix. buf must hold at least HeaderLen bytes.
func DecodeHeader(buf []byte) Header {
	return Header{
		Magic:     string(buf[0:2]),
		Version:   string(buf[2:4]),
		ChordType: protocol.ChordType(buf[4:6]),
		Tonic:     protocol.Note(buf[6:8]),
	}
}

func putUint(buf []byte, width int, v uint64) {
	switch width {
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	}
}

func getUint(buf []byte, width int) uint64 {
	switch width {
	case 2:
		return uint64(binary.BigEndian.Uint16(buf))
	case 4:
		return uint64(binary.BigEndian.Uint32(buf))
	}
	return 0
}
