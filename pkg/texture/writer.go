package texture

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Descriptor describes a texture to be written with a FourCC DDS header.
type Descriptor struct {
	Width     uint32
	Height    uint32
	MipLevels int
	Format    Format
	Cubemap   bool
}

func (d Descriptor) faces() int {
	if d.Cubemap {
		return 6
	}
	return 1
}

// DataSize is the number of data bytes that follow the header, saturating at
// math.MaxInt.
func (d Descriptor) DataSize() int {
	total := 0
	for _, wh := range MipChain(d.Width, d.Height, max(1, d.MipLevels)) {
		n := LevelSize(wh[0], wh[1], d.Format)
		if n > math.MaxInt/d.faces()-total {
			return math.MaxInt
		}
		total += n
	}
	return total * d.faces()
}

// AppendHeader appends the 4-byte magic and the 124-byte header to dst.
func (d Descriptor) AppendHeader(dst []byte) []byte {
	var header [4 + DDS_HEADER_SIZE]byte
	put := func(word int, v uint32) {
		binary.LittleEndian.PutUint32(header[word*4:word*4+4], v)
	}

	put(offMagic, DDS_MAGIC)
	put(offSize, DDS_HEADER_SIZE)

	flags := uint32(DDS_HEADER_FLAGS_CAPS | DDS_HEADER_FLAGS_HEIGHT | DDS_HEADER_FLAGS_WIDTH |
		DDS_HEADER_FLAGS_PIXELFORMAT | DDS_HEADER_FLAGS_LINEARSIZE)
	if d.MipLevels > 1 {
		flags |= DDS_HEADER_FLAGS_MIPMAPCOUNT
	}
	put(offFlags, flags)
	put(offHeight, d.Height)
	put(offWidth, d.Width)
	put(offPitch, uint32(LevelSize(int(d.Width), int(d.Height), d.Format)))
	put(offDepth, 0)
	put(offMipMapCount, uint32(max(1, d.MipLevels)))

	put(offPfSize, DDS_PIXELFORMAT_SIZE)
	put(offPfFlags, DDS_FOURCC)
	put(offPfFourCC, uint32(d.Format.FourCC()))

	caps := uint32(DDS_SURFACE_FLAGS_TEXTURE)
	if d.MipLevels > 1 {
		caps |= DDS_SURFACE_FLAGS_MIPMAP | DDS_SURFACE_FLAGS_COMPLEX
	}
	var caps2 uint32
	if d.Cubemap {
		caps |= DDS_SURFACE_FLAGS_COMPLEX
		caps2 = DDS_CUBEMAP | DDS_CUBEMAP_ALLFACES
	}
	put(offCaps, caps)
	put(offCaps2, caps2)

	return append(dst, header[:]...)
}

// Encode writes a complete DDS file: header followed by data, which must be
// exactly DataSize bytes.
func Encode(w io.Writer, d Descriptor, data []byte) error {
	if d.Format.BlockBytes() == 0 {
		return fmt.Errorf("invalid format %s", d.Format)
	}
	if want := d.DataSize(); len(data) != want {
		return fmt.Errorf("data size %d doesn't match %d bytes of %s levels", len(data), want, d.Format)
	}
	if _, err := w.Write(d.AppendHeader(nil)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}
