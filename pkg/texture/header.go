package texture

import (
	"encoding/binary"
	"fmt"
)

// Word offsets into the header region, counted in uint32s from the magic.
const (
	offMagic       = 0
	offSize        = 1
	offFlags       = 2
	offHeight      = 3
	offWidth       = 4
	offPitch       = 5
	offDepth       = 6
	offMipMapCount = 7
	offPfSize      = 19
	offPfFlags     = 20
	offPfFourCC    = 21
	offCaps        = 27
	offCaps2       = 28
)

// HeaderWords is the number of uint32 words read as the fixed header region.
const HeaderWords = 31

// DecodeOptions are optional arguments to ParseHeader and Decode. A nil
// *DecodeOptions selects the linear variant of every format.
type DecodeOptions struct {
	// SRGB selects the gamma-corrected variant of the resolved format.
	SRGB bool
}

// Header is a read-only view over the fixed header region of a DDS file.
// Raw fields are read on demand; resolved fields are computed by ParseHeader.
type Header struct {
	raw    []byte
	format Format
	mips   int
	cube   bool
}

func (h *Header) word(i int) uint32 {
	return binary.LittleEndian.Uint32(h.raw[i*4 : i*4+4])
}

func (h *Header) Magic() uint32            { return h.word(offMagic) }
func (h *Header) Size() uint32             { return h.word(offSize) }
func (h *Header) Flags() uint32            { return h.word(offFlags) }
func (h *Header) Height() uint32           { return h.word(offHeight) }
func (h *Header) Width() uint32            { return h.word(offWidth) }
func (h *Header) MipMapCount() uint32      { return h.word(offMipMapCount) }
func (h *Header) PixelFormatFlags() uint32 { return h.word(offPfFlags) }
func (h *Header) FourCC() FourCC           { return FourCC(h.word(offPfFourCC)) }
func (h *Header) Caps2() uint32            { return h.word(offCaps2) }

// Format is the resolved compression format.
func (h *Header) Format() Format { return h.format }

// MipLevels is the number of levels per face, always at least 1.
func (h *Header) MipLevels() int { return h.mips }

// Cubemap reports whether the file stores six complete cube faces.
func (h *Header) Cubemap() bool { return h.cube }

// FaceCount is 6 for a cubemap and 1 otherwise.
func (h *Header) FaceCount() int {
	if h.cube {
		return 6
	}
	return 1
}

// DataOffset is where face 0, level 0 begins: the declared header size plus
// the 4-byte magic.
func (h *Header) DataOffset() int {
	return int(h.Size()) + 4
}

func (h *Header) String() string {
	kind := "2d"
	if h.cube {
		kind = "cube"
	}
	return fmt.Sprintf("DDS %s %dx%d, %d mips, format=%s", kind, h.Width(), h.Height(), h.mips, h.format)
}

// ParseHeader validates the fixed header region of data and resolves its
// format, mip count and face layout. opts may be nil.
func ParseHeader(data []byte, opts *DecodeOptions) (*Header, error) {
	if len(data) < HeaderWords*4 {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedHeader, HeaderWords*4, len(data))
	}
	h := &Header{raw: data[:HeaderWords*4:HeaderWords*4]}

	if h.Magic() != DDS_MAGIC {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic())
	}
	if h.PixelFormatFlags()&DDS_FOURCC == 0 {
		return nil, fmt.Errorf("%w: flags 0x%x", ErrUnsupportedPixelFormat, h.PixelFormatFlags())
	}

	srgb := opts != nil && opts.SRGB
	format, err := FormatFromFourCC(h.FourCC(), srgb)
	if err != nil {
		return nil, err
	}
	h.format = format

	h.mips = 1
	if h.Flags()&DDS_HEADER_FLAGS_MIPMAPCOUNT != 0 {
		// The count is a signed word; zero and negative counts clamp to one.
		h.mips = max(1, int(int32(h.MipMapCount())))
	}

	caps2 := h.Caps2()
	if caps2&DDS_CUBEMAP != 0 {
		if caps2&DDS_CUBEMAP_ALLFACES != DDS_CUBEMAP_ALLFACES {
			return nil, fmt.Errorf("%w: caps2 0x%x", ErrIncompleteCubemap, caps2)
		}
		h.cube = true
	}

	return h, nil
}
