package frame

import (
	"errors"
	"testing"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/danmuck/p4chord/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRequest = protocol.ChordRequest{
	Tonic:       protocol.NoteAf,
	ChordType:   protocol.ChordMajor,
	ChosenNotes: 0x1234,
}

func TestEncodeRevisedLayoutBytes(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(Revised, sampleRequest)
	require.NoError(t, err)
	require.Len(t, buf, 28)
	want := []byte{
		'P', '4', 'P', '4',
		'M', '_', 'A', 'f',
		0x00, 0x00, 0x12, 0x34,
	}
	assert.Equal(t, want, buf[:12])
	assert.Equal(t, make([]byte, 16), buf[12:])
}

func TestEncodeLegacyLayoutBytes(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(Legacy, sampleRequest)
	require.NoError(t, err)
	require.Len(t, buf, 18)
	assert.Equal(t, []byte{'P', '4', 'P', '2', 'M', '_', 'A', 'f', 0x12, 0x34}, buf[:10])
	assert.Equal(t, make([]byte, 8), buf[10:])
}

func TestRoundTripRecoversHeader(t *testing.T) {
	testlog.Start(t)

	for _, layout := range Layouts {
		for _, note := range protocol.Notes {
			for _, ct := range protocol.ChordTypes {
				req := protocol.ChordRequest{Tonic: note, ChordType: ct, ChosenNotes: layout.Max()}
				buf, err := Encode(layout, req)
				require.NoError(t, err)

				resp, err := Decode(layout, buf)
				require.NoError(t, err)
				assert.Equal(t, req.Tonic, resp.Tonic)
				assert.Equal(t, req.ChordType, resp.ChordType)
				assert.Equal(t, req.ChosenNotes, resp.ChosenNotes)
				assert.Equal(t, [4]uint32{}, resp.Freqs)
			}
		}
	}
}

func TestEncodeOverflowDependsOnLayout(t *testing.T) {
	testlog.Start(t)

	req := sampleRequest
	req.ChosenNotes = 0x10000

	_, err := Encode(Legacy, req)
	var overflow *protocol.FieldOverflowError
	require.True(t, errors.As(err, &overflow), "expected overflow, got %v", err)
	assert.Equal(t, "chosen_notes", overflow.Field)
	assert.Equal(t, 16, overflow.Bits)

	_, err = Encode(Revised, req)
	assert.NoError(t, err)

	req.ChosenNotes = 0x1_0000_0000
	_, err = Encode(Revised, req)
	assert.True(t, errors.As(err, &overflow))
}

func TestEncodeRejectsUnknownSymbols(t *testing.T) {
	_, err := Encode(Revised, protocol.ChordRequest{Tonic: "Hx", ChordType: protocol.ChordMajor})
	assert.ErrorIs(t, err, protocol.ErrUnknownNote)

	_, err = Encode(Revised, protocol.ChordRequest{Tonic: protocol.NoteAn, ChordType: "zz"})
	assert.ErrorIs(t, err, protocol.ErrUnknownChordType)
}

func TestEncodeResponseCarriesFrequencies(t *testing.T) {
	resp := protocol.ChordResponse{
		Tonic:       protocol.NoteAf,
		ChordType:   protocol.ChordMajor,
		ChosenNotes: 0x1234,
		Freqs:       [4]uint32{110, 220, 440, 880},
	}
	for _, layout := range Layouts {
		buf, err := EncodeResponse(layout, resp)
		require.NoError(t, err)
		got, err := Decode(layout, buf)
		require.NoError(t, err)
		assert.Equal(t, resp, got)
	}

	// "\0n" in the legacy frame is 110 Hz.
	buf, err := EncodeResponse(Legacy, resp)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'n'}, buf[10:12])
}

func TestEncodeResponseFrequencyOverflow(t *testing.T) {
	resp := protocol.ChordResponse{Tonic: protocol.NoteAf, ChordType: protocol.ChordMajor, Freqs: [4]uint32{1, 2, 70000, 4}}
	_, err := EncodeResponse(Legacy, resp)
	var overflow *protocol.FieldOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, "freq3", overflow.Field)
}

func TestDecodeCorruptedMagic(t *testing.T) {
	testlog.Start(t)

	for _, layout := range Layouts {
		buf, err := Encode(layout, sampleRequest)
		require.NoError(t, err)
		buf[0] = 'X'

		_, err = Decode(layout, buf)
		var ferr *FrameFormatError
		require.True(t, errors.As(err, &ferr), "expected FrameFormatError, got %v", err)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	buf, err := Encode(Revised, sampleRequest)
	require.NoError(t, err)

	_, err = Decode(Legacy, buf)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeShortBuffer(t *testing.T) {
	buf, err := Encode(Revised, sampleRequest)
	require.NoError(t, err)

	_, err = Decode(Revised, buf[:Revised.Size()-1])
	var ferr *FrameFormatError
	require.True(t, errors.As(err, &ferr))
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 27, ferr.Len)
}

func TestDecodeIgnoresTrailingPadding(t *testing.T) {
	buf, err := Encode(Legacy, sampleRequest)
	require.NoError(t, err)
	buf = append(buf, ' ')

	resp, err := Decode(Legacy, buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest.ChosenNotes, resp.ChosenNotes)
}

func TestDecodeAnySniffsVersion(t *testing.T) {
	for _, layout := range Layouts {
		buf, err := Encode(layout, sampleRequest)
		require.NoError(t, err)

		f, err := DecodeAny(buf)
		require.NoError(t, err)
		assert.Equal(t, layout, f.Layout)
		assert.Equal(t, sampleRequest, f.Request())
	}

	_, err := DecodeAny([]byte("P4"))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeAny([]byte("P4Q9M_Af0000000000"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLayoutFieldTable(t *testing.T) {
	fields := Revised.Fields()
	require.Len(t, fields, 9)
	last := fields[len(fields)-1]
	assert.Equal(t, "freq4", last.Name)
	assert.Equal(t, Revised.Size(), last.Offset+last.Width)

	legacy := Legacy.Fields()
	assert.Equal(t, Legacy.Size(), legacy[8].Offset+legacy[8].Width)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("legacy")
	require.NoError(t, err)
	assert.Equal(t, Legacy, l)

	l, err = ParseLayout(" Revised ")
	require.NoError(t, err)
	assert.Equal(t, Revised, l)

	_, err = ParseLayout("p9")
	assert.Error(t, err)
}
