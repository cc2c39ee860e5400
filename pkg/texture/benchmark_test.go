package texture

import "testing"

// BenchmarkDecode measures header parsing plus layout planning.
func BenchmarkDecode(b *testing.B) {
	cases := []struct {
		name string
		desc Descriptor
	}{
		{"2D_256_BC3", Descriptor{Width: 256, Height: 256, MipLevels: 9, Format: FormatBC3RGBAUnorm}},
		{"2D_2048_BC1", Descriptor{Width: 2048, Height: 2048, MipLevels: 12, Format: FormatBC1RGBAUnorm}},
		{"Cube_512_BC3", Descriptor{Width: 512, Height: 512, MipLevels: 10, Format: FormatBC3RGBAUnorm, Cubemap: true}},
	}

	for _, tc := range cases {
		data := buildDDS(b, tc.desc)
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Decode(data, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParseHeader(b *testing.B) {
	data := buildDDS(b, Descriptor{Width: 64, Height: 64, MipLevels: 7, Format: FormatBC2RGBAUnorm})
	opts := &DecodeOptions{SRGB: true}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := ParseHeader(data, opts); err != nil {
			b.Fatal(err)
		}
	}
}
