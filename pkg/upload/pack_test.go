package upload

import (
	"bytes"
	"testing"

	"github.com/EchoTools/ddsgpu/pkg/texture"
)

func buildLayout(t testing.TB, d texture.Descriptor) *texture.Layout {
	t.Helper()
	data := make([]byte, d.DataSize())
	for i := range data {
		data[i] = byte(i*7 + 1)
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

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestPadRows(t *testing.T) {
	t.Run("Width4", func(t *testing.T) {
		data := make([]byte, 16)
		for i := range data {
			data[i] = byte(i + 1)
		}
		padded := PadRows(data, 4)
		if len(padded) != 256 {
			t.Fatalf("length: got %d, want 256", len(padded))
		}
		if !bytes.Equal(padded[:16], data) {
			t.Errorf("row 0: got %v", padded[:16])
		}
		if !isZero(padded[16:]) {
			t.Error("padding after row 0 is not zero")
		}
	})

	t.Run("TwoRows", func(t *testing.T) {
		data := make([]byte, 64)
		for i := range data {
			data[i] = byte(i + 1)
		}
		padded := PadRows(data, 8)
		if len(padded) != 512 {
			t.Fatalf("length: got %d, want 512", len(padded))
		}
		if !bytes.Equal(padded[0:32], data[0:32]) || !bytes.Equal(padded[256:288], data[32:64]) {
			t.Error("block rows not placed at 256-byte strides")
		}
		if !isZero(padded[32:256]) || !isZero(padded[288:]) {
			t.Error("padding is not zero")
		}
	})

	t.Run("ReadsIntoCapacity", func(t *testing.T) {
		file := make([]byte, 24)
		for i := range file {
			file[i] = byte(100 + i)
		}
		// An 8-byte BC1 level followed by more file bytes.
		level := file[:8]
		padded := PadRows(level, 4)
		if !bytes.Equal(padded[:16], file[:16]) {
			t.Errorf("expected 16 bytes from the underlying buffer, got %v", padded[:16])
		}
	})

	t.Run("StopsAtCapacity", func(t *testing.T) {
		level := bytes.Repeat([]byte{0xAB}, 8)
		padded := PadRows(level[:8:8], 4)
		if !bytes.Equal(padded[:8], level) || !isZero(padded[8:]) {
			t.Error("bytes beyond capacity should stay zero")
		}
	})
}

func TestPlan(t *testing.T) {
	l := buildLayout(t, texture.Descriptor{Width: 256, Height: 256, MipLevels: 9, Format: texture.FormatBC3RGBAUnorm})
	instructions := Plan(l)
	if len(instructions) != 9 {
		t.Fatalf("got %d instructions, want 9", len(instructions))
	}

	tests := []struct {
		width       int
		bytesPerRow int
		padded      bool
		dataLen     int
		extent      int
	}{
		{256, 1024, false, 65536, 256},
		{128, 512, false, 16384, 128},
		{64, 256, false, 4096, 64},
		{32, 256, true, 256 * 8, 32},
		{16, 256, true, 256 * 4, 16},
		{8, 256, true, 256 * 2, 8},
		{4, 256, true, 256, 4},
		{2, 256, true, 256, 4},
		{1, 256, true, 256, 4},
	}

	for i, tt := range tests {
		in := instructions[i]
		if in.Level != i {
			t.Errorf("instruction %d: level %d", i, in.Level)
		}
		if in.BytesPerRow != tt.bytesPerRow {
			t.Errorf("level %d: bytes per row %d, want %d", i, in.BytesPerRow, tt.bytesPerRow)
		}
		if in.Padded != tt.padded {
			t.Errorf("level %d: padded %v, want %v", i, in.Padded, tt.padded)
		}
		if len(in.Data) != tt.dataLen {
			t.Errorf("level %d: data length %d, want %d", i, len(in.Data), tt.dataLen)
		}
		want := Extent3D{Width: tt.extent, Height: tt.extent, DepthOrArrayLayers: 1}
		if in.Extent != want {
			t.Errorf("level %d: extent %+v, want %+v", i, in.Extent, want)
		}
	}

	// Unpadded levels upload straight from the source buffer.
	if &instructions[0].Data[0] != &l.Faces[0].Levels[0].Data[0] {
		t.Error("level 0 should not be copied")
	}
}

func TestPlanIgnoresSpareCapacity(t *testing.T) {
	// 8x8 BC1 with 4 levels: 32 + 8 + 8 + 8 data bytes.
	d := texture.Descriptor{Width: 8, Height: 8, MipLevels: 4, Format: texture.FormatBC1RGBAUnorm}
	data := make([]byte, d.DataSize())
	for i := range data {
		data[i] = byte(i + 1)
	}
	var buf bytes.Buffer
	if err := texture.Encode(&buf, d, data); err != nil {
		t.Fatalf("encode: %v", err)
	}
	file := buf.Bytes()

	backing := bytes.Repeat([]byte{0xAA}, len(file)+64)
	input := backing[:len(file)]
	copy(input, file)

	l, err := texture.Decode(input, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	padded := Plan(l)[0].Data

	// Row 1 starts 32 bytes into level 0 and has 24 file bytes left.
	if !bytes.Equal(padded[256:280], file[160:184]) {
		t.Errorf("row 1: got %v, want %v", padded[256:280], file[160:184])
	}
	if !isZero(padded[280:]) {
		t.Errorf("padded row 1 holds bytes past the end of the input: %v", padded[280:288])
	}
}

func TestPlanCubemapUsesFaceZero(t *testing.T) {
	l := buildLayout(t, texture.Descriptor{Width: 128, Height: 128, MipLevels: 3, Format: texture.FormatBC1RGBAUnorm, Cubemap: true})
	instructions := Plan(l)
	if len(instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(instructions))
	}
	for i, in := range instructions {
		if !bytes.Equal(in.Data, l.Faces[0].Levels[i].Data) {
			t.Errorf("level %d does not come from face 0", i)
		}
	}
}
