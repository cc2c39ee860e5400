package texture

import (
	"errors"
	"fmt"
)

// ErrMalformedHeader is wrapped by every header validation failure.
var ErrMalformedHeader = errors.New("texture: malformed header")

var (
	ErrInvalidMagic               = fmt.Errorf("%w: invalid magic", ErrMalformedHeader)
	ErrUnsupportedPixelFormat     = fmt.Errorf("%w: pixel format has no FourCC code", ErrMalformedHeader)
	ErrUnsupportedCompressionCode = fmt.Errorf("%w: unsupported FourCC code", ErrMalformedHeader)
	ErrIncompleteCubemap          = fmt.Errorf("%w: incomplete cubemap faces", ErrMalformedHeader)
	ErrTruncatedData              = errors.New("texture: truncated data")
)

// UnsupportedCompressionCodeError carries the FourCC that could not be resolved.
type UnsupportedCompressionCodeError struct {
	Code FourCC
}

func (e *UnsupportedCompressionCodeError) Error() string {
	return fmt.Sprintf("%v %q (0x%08x)", ErrUnsupportedCompressionCode, e.Code.String(), uint32(e.Code))
}

func (e *UnsupportedCompressionCodeError) Unwrap() error { return ErrUnsupportedCompressionCode }

// TruncatedDataError reports a byte range that runs past the end of the input.
type TruncatedDataError struct {
	Offset    int // start of the range
	Required  int // bytes needed from Offset
	Available int // bytes present from Offset
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("%v: need %d bytes at offset %d, have %d", ErrTruncatedData, e.Required, e.Offset, e.Available)
}

func (e *TruncatedDataError) Unwrap() error { return ErrTruncatedData }
