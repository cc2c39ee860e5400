// Package archive stores textures in a zstd container: a fixed 24-byte
// header recording both sizes, followed by a single zstd frame.
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic identifies an archive header.
var Magic = [4]byte{'Z', 'S', 'T', 'D'}

const (
	// HeaderSize is the encoded size of a Header.
	HeaderSize = 24

	// headerLength is the value of Header.HeaderLength: the bytes that
	// follow the magic and the length field itself.
	headerLength = 16

	// Ext is appended to the name of a packed texture.
	Ext = ".zst"
)

var (
	ErrInvalidHeader = errors.New("archive: invalid header")
	ErrSizeMismatch  = errors.New("archive: size mismatch")
)

// Header precedes the compressed frame.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	UncompressedSize uint64
	CompressedSize   uint64
}

// NewHeader returns a header for a payload of the given sizes.
func NewHeader(uncompressed, compressed uint64) *Header {
	return &Header{
		Magic:            Magic,
		HeaderLength:     headerLength,
		UncompressedSize: uncompressed,
		CompressedSize:   compressed,
	}
}

func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic %q", ErrInvalidHeader, h.Magic[:])
	}
	if h.HeaderLength != headerLength {
		return fmt.Errorf("%w: header length %d", ErrInvalidHeader, h.HeaderLength)
	}
	if h.UncompressedSize == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidHeader)
	}
	if h.CompressedSize == 0 {
		return fmt.Errorf("%w: empty frame", ErrInvalidHeader)
	}
	return nil
}

// MarshalBinary encodes the header.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header into buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.UncompressedSize)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedSize)
}

// UnmarshalBinary decodes and validates the header at the start of data.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from data without validating it.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.UncompressedSize = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedSize = binary.LittleEndian.Uint64(data[16:24])
}

// IsArchive reports whether data starts with an archive magic.
func IsArchive(data []byte) bool {
	return len(data) >= HeaderSize && bytes.Equal(data[:4], Magic[:])
}
