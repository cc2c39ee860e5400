package preview

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/EchoTools/ddsgpu/pkg/texture"
)

func colorBlock(c0, c1 uint16, indices uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:2], c0)
	binary.LittleEndian.PutUint16(b[2:4], c1)
	binary.LittleEndian.PutUint32(b[4:8], indices)
	return b
}

func pixel(img *image.NRGBA, x, y int) [4]uint8 {
	o := img.PixOffset(x, y)
	return [4]uint8(img.Pix[o : o+4])
}

const (
	red  = 0xf800
	blue = 0x001f
)

func TestDecodeBC1(t *testing.T) {
	tests := []struct {
		name    string
		c0, c1  uint16
		indices uint32
		want    [4]uint8
	}{
		{"Endpoint0", red, blue, 0x00000000, [4]uint8{255, 0, 0, 255}},
		{"Endpoint1", red, blue, 0x55555555, [4]uint8{0, 0, 255, 255}},
		{"TwoThirds", red, blue, 0xaaaaaaaa, [4]uint8{170, 0, 85, 255}},
		{"OneThird", red, blue, 0xffffffff, [4]uint8{85, 0, 170, 255}},
		{"Midpoint", blue, red, 0xaaaaaaaa, [4]uint8{127, 0, 127, 255}},
		{"TransparentBlack", blue, red, 0xffffffff, [4]uint8{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(texture.MipLevel{
				Width:  4,
				Height: 4,
				Format: texture.FormatBC1RGBAUnorm,
				Data:   colorBlock(tt.c0, tt.c1, tt.indices),
			})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			for y := range 4 {
				for x := range 4 {
					if got := pixel(img, x, y); got != tt.want {
						t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, tt.want)
					}
				}
			}
		})
	}
}

func TestDecodeBC2(t *testing.T) {
	block := make([]byte, 16)
	// Alpha nibbles 0..15 across the block.
	for i := range 8 {
		block[i] = byte(2*i) | byte(2*i+1)<<4
	}
	copy(block[8:], colorBlock(blue, red, 0))

	img, err := Decode(texture.MipLevel{Width: 4, Height: 4, Format: texture.FormatBC2RGBAUnormSRGB, Data: block})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range 16 {
		got := pixel(img, i%4, i/4)
		// The four-color palette applies even though c0 < c1.
		if want := uint8(i<<4 | i); got != [4]uint8{0, 0, 255, want} {
			t.Errorf("pixel %d: got %v, alpha want %d", i, got, want)
		}
	}
}

func TestDecodeBC3Alpha(t *testing.T) {
	tests := []struct {
		name   string
		a0, a1 uint8
		index  uint64
		want   uint8
	}{
		{"Endpoint0", 255, 0, 0, 255},
		{"Endpoint1", 255, 0, 1, 0},
		{"EightStep", 255, 0, 2, 218},
		{"SixStepFirst", 0, 255, 2, 51},
		{"SixStepZero", 0, 255, 6, 0},
		{"SixStepOpaque", 0, 255, 7, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := make([]byte, 16)
			block[0], block[1] = tt.a0, tt.a1
			var bits uint64
			for i := range 16 {
				bits |= tt.index << (3 * i)
			}
			for i := range 6 {
				block[2+i] = byte(bits >> (8 * i))
			}
			copy(block[8:], colorBlock(red, blue, 0))

			img, err := Decode(texture.MipLevel{Width: 4, Height: 4, Format: texture.FormatBC3RGBAUnorm, Data: block})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := pixel(img, 3, 3); got != [4]uint8{255, 0, 0, tt.want} {
				t.Errorf("got %v, want alpha %d", got, tt.want)
			}
		})
	}
}

func encodeLayout(t *testing.T, d texture.Descriptor) *texture.Layout {
	t.Helper()
	data := make([]byte, d.DataSize())
	for i := 0; i+8 <= len(data); i += 8 {
		copy(data[i:], colorBlock(red, blue, 0))
	}
	var buf bytes.Buffer
	if err := texture.Encode(&buf, d, data); err != nil {
		t.Fatalf("encode: %v", err)
	}
	l, err := texture.Decode(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return l
}

func TestLevel(t *testing.T) {
	l := encodeLayout(t, texture.Descriptor{Width: 8, Height: 6, MipLevels: 4, Format: texture.FormatBC1RGBAUnorm})

	sizes := [][2]int{{8, 6}, {4, 3}, {2, 1}, {1, 1}}
	for i, want := range sizes {
		img, err := Level(l, 0, i)
		if err != nil {
			t.Fatalf("level %d: %v", i, err)
		}
		if got := img.Bounds().Size(); got.X != want[0] || got.Y != want[1] {
			t.Errorf("level %d: size %v, want %v", i, got, want)
		}
		if got := pixel(img, 0, 0); got != [4]uint8{255, 0, 0, 255} {
			t.Errorf("level %d: pixel %v", i, got)
		}
	}

	if _, err := Level(l, 1, 0); !errors.Is(err, ErrFaceOutOfRange) {
		t.Errorf("expected ErrFaceOutOfRange, got %v", err)
	}
	if _, err := Level(l, 0, 4); !errors.Is(err, ErrLevelOutOfRange) {
		t.Errorf("expected ErrLevelOutOfRange, got %v", err)
	}
}

func TestDecodeShortData(t *testing.T) {
	_, err := Decode(texture.MipLevel{Width: 8, Height: 8, Format: texture.FormatBC1RGBAUnorm, Data: make([]byte, 24)})
	if err == nil {
		t.Error("expected error for short level data")
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		w, h, maxSide int
		wantW, wantH  int
	}{
		{256, 128, 64, 64, 32},
		{128, 256, 64, 32, 64},
		{512, 1, 64, 64, 1},
		{32, 32, 64, 32, 32},
		{300, 300, 0, 300, 300},
	}
	for _, tt := range tests {
		img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
		got := Thumbnail(img, tt.maxSide).Bounds().Size()
		if got.X != tt.wantW || got.Y != tt.wantH {
			t.Errorf("%dx%d max %d: got %v, want %dx%d", tt.w, tt.h, tt.maxSide, got, tt.wantW, tt.wantH)
		}
	}
}

func TestWritePNG(t *testing.T) {
	l := encodeLayout(t, texture.Descriptor{Width: 64, Height: 64, MipLevels: 2, Format: texture.FormatBC1RGBAUnorm, Cubemap: true})

	var buf bytes.Buffer
	if err := WritePNG(&buf, l, 5, 0, 16); err != nil {
		t.Fatalf("write png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(16, 16) {
		t.Errorf("size: got %v", got)
	}
}
