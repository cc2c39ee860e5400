package texture

import (
	"encoding/binary"
	"fmt"
)

// FourCC is a four-character code stored as a little-endian uint32.
type FourCC uint32

// Recognized FourCC codes.
const (
	FourCCDXT1 FourCC = 0x31545844 // "DXT1"
	FourCCDXT3 FourCC = 0x33545844 // "DXT3"
	FourCCDXT5 FourCC = 0x35545844 // "DXT5"
	FourCCDX10 FourCC = 0x30315844 // "DX10", not supported by the parser
)

// MakeFourCC packs the first four bytes of s into a FourCC.
func MakeFourCC(s string) FourCC {
	var b [4]byte
	copy(b[:], s)
	return FourCC(binary.LittleEndian.Uint32(b[:]))
}

// Bytes returns the code in file order.
func (c FourCC) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(c))
	return b
}

// String returns the raw four characters, which may not be printable.
func (c FourCC) String() string {
	b := c.Bytes()
	return string(b[:])
}

// Format is a block-compressed pixel format.
type Format uint8

const (
	FormatInvalid Format = iota
	FormatBC1RGBAUnorm
	FormatBC1RGBAUnormSRGB
	FormatBC2RGBAUnorm
	FormatBC2RGBAUnormSRGB
	FormatBC3RGBAUnorm
	FormatBC3RGBAUnormSRGB
)

// DXGI_FORMAT values for the formats this package handles.
const (
	DXGI_FORMAT_UNKNOWN        = 0
	DXGI_FORMAT_BC1_UNORM      = 71
	DXGI_FORMAT_BC1_UNORM_SRGB = 72
	DXGI_FORMAT_BC2_UNORM      = 74
	DXGI_FORMAT_BC2_UNORM_SRGB = 75
	DXGI_FORMAT_BC3_UNORM      = 77
	DXGI_FORMAT_BC3_UNORM_SRGB = 78
)

var formatInfo = [...]struct {
	name       string
	blockBytes int
	fourCC     FourCC
	dxgi       uint32
	srgb       bool
}{
	FormatInvalid:          {"invalid", 0, 0, DXGI_FORMAT_UNKNOWN, false},
	FormatBC1RGBAUnorm:     {"bc1-rgba-unorm", 8, FourCCDXT1, DXGI_FORMAT_BC1_UNORM, false},
	FormatBC1RGBAUnormSRGB: {"bc1-rgba-unorm-srgb", 8, FourCCDXT1, DXGI_FORMAT_BC1_UNORM_SRGB, true},
	FormatBC2RGBAUnorm:     {"bc2-rgba-unorm", 16, FourCCDXT3, DXGI_FORMAT_BC2_UNORM, false},
	FormatBC2RGBAUnormSRGB: {"bc2-rgba-unorm-srgb", 16, FourCCDXT3, DXGI_FORMAT_BC2_UNORM_SRGB, true},
	FormatBC3RGBAUnorm:     {"bc3-rgba-unorm", 16, FourCCDXT5, DXGI_FORMAT_BC3_UNORM, false},
	FormatBC3RGBAUnormSRGB: {"bc3-rgba-unorm-srgb", 16, FourCCDXT5, DXGI_FORMAT_BC3_UNORM_SRGB, true},
}

func (f Format) valid() bool { return f > FormatInvalid && int(f) < len(formatInfo) }

// String returns the WebGPU-style format name, e.g. "bc3-rgba-unorm-srgb".
func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatInfo[f].name
}

// BlockBytes is the size in bytes of one encoded 4x4 block.
func (f Format) BlockBytes() int {
	if !f.valid() {
		return 0
	}
	return formatInfo[f].blockBytes
}

// SRGB reports whether the format is gamma-corrected.
func (f Format) SRGB() bool { return f.valid() && formatInfo[f].srgb }

// FourCC returns the container code the format is stored under.
func (f Format) FourCC() FourCC {
	if !f.valid() {
		return 0
	}
	return formatInfo[f].fourCC
}

// DXGIFormat returns the matching DXGI_FORMAT value.
func (f Format) DXGIFormat() uint32 {
	if !f.valid() {
		return DXGI_FORMAT_UNKNOWN
	}
	return formatInfo[f].dxgi
}

// Linear returns the non-sRGB variant of f.
func (f Format) Linear() Format {
	if f.SRGB() {
		return f - 1
	}
	return f
}

// FormatFromFourCC resolves a container code and sRGB flag to a Format.
func FormatFromFourCC(code FourCC, srgb bool) (Format, error) {
	var f Format
	switch code {
	case FourCCDXT1:
		f = FormatBC1RGBAUnorm
	case FourCCDXT3:
		f = FormatBC2RGBAUnorm
	case FourCCDXT5:
		f = FormatBC3RGBAUnorm
	default:
		return FormatInvalid, &UnsupportedCompressionCodeError{Code: code}
	}
	if srgb {
		f++
	}
	return f, nil
}

// FormatFromDXGI maps a DXGI_FORMAT value to a Format.
func FormatFromDXGI(dxgi uint32) (Format, bool) {
	for f := FormatBC1RGBAUnorm; int(f) < len(formatInfo); f++ {
		if formatInfo[f].dxgi == dxgi {
			return f, true
		}
	}
	return FormatInvalid, false
}

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(dxgi uint32) string {
	switch dxgi {
	case DXGI_FORMAT_BC1_UNORM:
		return "BC1_UNORM"
	case DXGI_FORMAT_BC1_UNORM_SRGB:
		return "BC1_UNORM_SRGB"
	case DXGI_FORMAT_BC2_UNORM:
		return "BC2_UNORM"
	case DXGI_FORMAT_BC2_UNORM_SRGB:
		return "BC2_UNORM_SRGB"
	case DXGI_FORMAT_BC3_UNORM:
		return "BC3_UNORM"
	case DXGI_FORMAT_BC3_UNORM_SRGB:
		return "BC3_UNORM_SRGB"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", dxgi)
	}
}
