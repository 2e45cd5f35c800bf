package frame

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMagic       = errors.New("frame: invalid magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported version")
	ErrTruncated          = errors.New("frame: truncated frame")
	ErrInvalidLayout      = errors.New("frame: invalid layout")
)

// FrameFormatError reports a received buffer that is not a well-formed frame
// for the expected layout. Err is one of the sentinel errors above.
type FrameFormatError struct {
	Layout string
	Len    int
	Err    error
}

func (e *FrameFormatError) Error() string {
	return fmt.Sprintf("%v (layout=%s len=%d)", e.Err, e.Layout, e.Len)
}

func (e *FrameFormatError) Unwrap() error { return e.Err }
