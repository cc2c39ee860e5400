// Package preview decodes BC1, BC2 and BC3 mip levels to RGBA images and
// renders PNG thumbnails of them.
package preview

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/EchoTools/ddsgpu/pkg/texture"
)

var (
	ErrFaceOutOfRange  = errors.New("preview: face out of range")
	ErrLevelOutOfRange = errors.New("preview: mip level out of range")
)

// Level returns the decoded pixels of one face and mip level of l.
func Level(l *texture.Layout, face, level int) (*image.NRGBA, error) {
	if face < 0 || face >= len(l.Faces) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFaceOutOfRange, face, len(l.Faces))
	}
	levels := l.Faces[face].Levels
	if level < 0 || level >= len(levels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrLevelOutOfRange, level, len(levels))
	}
	return Decode(levels[level])
}

// Decode expands the blocks of m into an image of m.Width x m.Height.
// Palettes are interpolated on the stored values for linear and sRGB
// formats alike.
func Decode(m texture.MipLevel) (*image.NRGBA, error) {
	blockBytes := m.Format.BlockBytes()
	if blockBytes == 0 {
		return nil, fmt.Errorf("preview: invalid format %s", m.Format)
	}
	if want := texture.LevelSize(m.Width, m.Height, m.Format); len(m.Data) < want {
		return nil, fmt.Errorf("preview: level %d holds %d bytes, need %d", m.Level, len(m.Data), want)
	}

	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	blocksW := (max(m.Width, 4) + 3) / 4
	blocksH := (max(m.Height, 4) + 3) / 4

	var px [16][4]uint8
	offset := 0
	for by := range blocksH {
		for bx := range blocksW {
			block := m.Data[offset : offset+blockBytes]
			offset += blockBytes
			decodeBlock(&px, block, m.Format.Linear())

			for i, c := range px {
				x, y := bx*4+i%4, by*4+i/4
				if x >= m.Width || y >= m.Height {
					continue
				}
				copy(img.Pix[img.PixOffset(x, y):], c[:])
			}
		}
	}
	return img, nil
}

func decodeBlock(px *[16][4]uint8, block []byte, format texture.Format) {
	switch format {
	case texture.FormatBC1RGBAUnorm:
		decodeColor(px, block, true)
	case texture.FormatBC2RGBAUnorm:
		decodeColor(px, block[8:], false)
		decodeExplicitAlpha(px, block[:8])
	case texture.FormatBC3RGBAUnorm:
		decodeColor(px, block[8:], false)
		decodeInterpolatedAlpha(px, block[:8])
	}
}

func expand565(c uint16) [3]int {
	r := int(c>>11) & 0x1f
	g := int(c>>5) & 0x3f
	b := int(c) & 0x1f
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// decodeColor decodes the 8-byte endpoint and index block shared by every BC
// format. BC1 selects the three-color mode with transparent black when the
// first endpoint does not exceed the second.
func decodeColor(px *[16][4]uint8, block []byte, bc1 bool) {
	c0 := binary.LittleEndian.Uint16(block[0:2])
	c1 := binary.LittleEndian.Uint16(block[2:4])
	e0, e1 := expand565(c0), expand565(c1)

	var palette [4][4]uint8
	for ch := range 3 {
		a, b := e0[ch], e1[ch]
		palette[0][ch] = uint8(a)
		palette[1][ch] = uint8(b)
		if c0 > c1 || !bc1 {
			palette[2][ch] = uint8((2*a + b) / 3)
			palette[3][ch] = uint8((a + 2*b) / 3)
		} else {
			palette[2][ch] = uint8((a + b) / 2)
		}
	}
	palette[0][3], palette[1][3], palette[2][3] = 255, 255, 255
	if c0 > c1 || !bc1 {
		palette[3][3] = 255
	}

	indices := binary.LittleEndian.Uint32(block[4:8])
	for i := range px {
		px[i] = palette[indices>>(2*i)&3]
	}
}

func decodeExplicitAlpha(px *[16][4]uint8, block []byte) {
	bits := binary.LittleEndian.Uint64(block)
	for i := range px {
		a := uint8(bits>>(4*i)) & 0xf
		px[i][3] = a<<4 | a
	}
}

func decodeInterpolatedAlpha(px *[16][4]uint8, block []byte) {
	a0, a1 := int(block[0]), int(block[1])
	var palette [8]uint8
	palette[0], palette[1] = uint8(a0), uint8(a1)
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			palette[i] = uint8((a0*(8-i) + a1*(i-1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			palette[i] = uint8((a0*(6-i) + a1*(i-1)) / 5)
		}
		palette[6], palette[7] = 0, 255
	}

	var bits uint64
	for i := range 6 {
		bits |= uint64(block[2+i]) << (8 * i)
	}
	for i := range px {
		px[i][3] = palette[bits>>(3*i)&7]
	}
}
