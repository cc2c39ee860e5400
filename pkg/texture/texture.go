// Package texture decodes block-compressed DDS containers and plans the byte
// layout of every face and mip level they store.
//
// Only legacy FourCC headers are understood, and only the three S3TC codes:
//  1. DXT1 (BC1, 8-byte blocks)
//  2. DXT3 (BC2, 16-byte blocks)
//  3. DXT5 (BC3, 16-byte blocks)
//
// Headerless BC payloads described by a 256-byte metadata record can be
// wrapped into a parseable file with ConvertRawBCToDDS.
package texture

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DDS header constants
const (
	DDS_MAGIC                    = 0x20534444 // "DDS "
	DDS_HEADER_SIZE              = 124
	DDS_HEADER_FLAGS_CAPS        = 0x1
	DDS_HEADER_FLAGS_HEIGHT      = 0x2
	DDS_HEADER_FLAGS_WIDTH       = 0x4
	DDS_HEADER_FLAGS_PIXELFORMAT = 0x1000
	DDS_HEADER_FLAGS_MIPMAPCOUNT = 0x20000
	DDS_HEADER_FLAGS_LINEARSIZE  = 0x80000

	DDS_SURFACE_FLAGS_TEXTURE = 0x1000
	DDS_SURFACE_FLAGS_COMPLEX = 0x8
	DDS_SURFACE_FLAGS_MIPMAP  = 0x400000

	DDS_CUBEMAP           = 0x200
	DDS_CUBEMAP_POSITIVEX = 0x400
	DDS_CUBEMAP_NEGATIVEX = 0x800
	DDS_CUBEMAP_POSITIVEY = 0x1000
	DDS_CUBEMAP_NEGATIVEY = 0x2000
	DDS_CUBEMAP_POSITIVEZ = 0x4000
	DDS_CUBEMAP_NEGATIVEZ = 0x8000
	DDS_CUBEMAP_ALLFACES  = DDS_CUBEMAP_POSITIVEX | DDS_CUBEMAP_NEGATIVEX |
		DDS_CUBEMAP_POSITIVEY | DDS_CUBEMAP_NEGATIVEY |
		DDS_CUBEMAP_POSITIVEZ | DDS_CUBEMAP_NEGATIVEZ

	DDS_PIXELFORMAT_SIZE = 32
	DDS_FOURCC           = 0x4
)

// MetadataSize is the length of a metadata record. Only the first eight
// words are meaningful; the rest is zero padding.
const MetadataSize = 256

// TextureMetadata describes a headerless BC payload. Fields are stored as
// consecutive little-endian words in declaration order.
type TextureMetadata struct {
	Width       uint32
	Height      uint32
	MipLevels   uint32
	DXGIFormat  uint32
	DDSFileSize uint32 // payload size plus the DDS header
	RawFileSize uint32
	Flags       uint32
	ArraySize   uint32 // 6 for cubemaps
}

func (m *TextureMetadata) words() []*uint32 {
	return []*uint32{
		&m.Width, &m.Height, &m.MipLevels, &m.DXGIFormat,
		&m.DDSFileSize, &m.RawFileSize, &m.Flags, &m.ArraySize,
	}
}

// ParseMetadata reads one metadata record from r.
func ParseMetadata(r io.Reader) (*TextureMetadata, error) {
	var record [MetadataSize]byte
	if _, err := io.ReadFull(r, record[:]); err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	m := &TextureMetadata{}
	for i, w := range m.words() {
		*w = binary.LittleEndian.Uint32(record[i*4:])
	}
	return m, nil
}

// ToBytes encodes m as a zero-padded metadata record.
func (m *TextureMetadata) ToBytes() []byte {
	record := make([]byte, MetadataSize)
	for i, w := range m.words() {
		binary.LittleEndian.PutUint32(record[i*4:], *w)
	}
	return record
}

func (m *TextureMetadata) String() string {
	return fmt.Sprintf("%dx%d %s, %d mips, %d raw bytes",
		m.Width, m.Height, FormatName(m.DXGIFormat), m.MipLevels, m.RawFileSize)
}

// Descriptor returns the header description matching the metadata.
func (m *TextureMetadata) Descriptor() (Descriptor, error) {
	format, ok := FormatFromDXGI(m.DXGIFormat)
	if !ok {
		return Descriptor{}, fmt.Errorf("unsupported DXGI format %s", FormatName(m.DXGIFormat))
	}
	if m.ArraySize != 1 && m.ArraySize != 6 {
		return Descriptor{}, fmt.Errorf("unsupported array size %d", m.ArraySize)
	}
	return Descriptor{
		Width:     m.Width,
		Height:    m.Height,
		MipLevels: max(1, int(m.MipLevels)),
		Format:    format,
		Cubemap:   m.ArraySize == 6,
	}, nil
}

// ConvertRawBCToDDS prefixes headerless BC data with a FourCC DDS header.
func ConvertRawBCToDDS(rawData []byte, meta *TextureMetadata) ([]byte, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata is required")
	}

	if uint32(len(rawData)) != meta.RawFileSize {
		return nil, fmt.Errorf("raw data size %d doesn't match metadata size %d", len(rawData), meta.RawFileSize)
	}

	desc, err := meta.Descriptor()
	if err != nil {
		return nil, err
	}
	if want := desc.DataSize(); want != len(rawData) {
		return nil, fmt.Errorf("raw data size %d doesn't match %d bytes of %s levels", len(rawData), want, desc.Format)
	}

	ddsData := make([]byte, 0, 4+DDS_HEADER_SIZE+len(rawData))
	ddsData = desc.AppendHeader(ddsData)
	ddsData = append(ddsData, rawData...)
	return ddsData, nil
}
