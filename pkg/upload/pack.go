package upload

import "github.com/EchoTools/ddsgpu/pkg/texture"

// MinBytesPerRow is the row pitch alignment required for buffer-to-texture copies.
const MinBytesPerRow = 256

// paddedBlockBytes is the per-block stride PadRows assumes. It is 16 for every
// format, including 8-byte BC1 blocks, so padded BC1 rows pick up the bytes of
// the following block row.
// TODO: derive the stride from the format once BC1 callers can verify the
// resulting padded layout against real device uploads.
const paddedBlockBytes = 16

// Instruction describes the upload of one mip level.
type Instruction struct {
	Level       int
	Data        []byte
	BytesPerRow int
	Extent      Extent3D
	Padded      bool // Data is a fresh buffer built by PadRows
}

// Plan computes one Instruction per mip level of face 0 of l.
//
// The row pitch is taken as four bytes per texel column of the level. Levels
// narrower than MinBytesPerRow/4 texels are repacked by PadRows.
func Plan(l *texture.Layout) []Instruction {
	levels := l.Faces[0].Levels
	out := make([]Instruction, 0, len(levels))
	for _, lvl := range levels {
		in := Instruction{
			Level:       lvl.Level,
			Data:        lvl.Data,
			BytesPerRow: 4 * lvl.Width,
			Extent: Extent3D{
				Width:              max(lvl.Width, 4),
				Height:             max(lvl.Height, 4),
				DepthOrArrayLayers: 1,
			},
		}
		if in.BytesPerRow < MinBytesPerRow {
			in.BytesPerRow = MinBytesPerRow
			in.Data = PadRows(lvl.Data, lvl.Width)
			in.Padded = true
		}
		out = append(out, in)
	}
	return out
}

// PadRows copies the block rows of a level of the given width into a new
// buffer with a MinBytesPerRow stride. The row count is ceil(width/4), and
// row i is read from offset ceil(width/4)*16*i of data.
//
// Reads may extend past len(data) up to cap(data), as texture.Plan hands out
// level views whose capacity ends where the file ends; bytes beyond cap are
// left zero.
func PadRows(data []byte, width int) []byte {
	rows := (width + 3) / 4
	rowBytes := rows * paddedBlockBytes
	padded := make([]byte, MinBytesPerRow*rows)

	src := data[:cap(data)]
	for i := range rows {
		start := rowBytes * i
		if start >= len(src) {
			break
		}
		end := min(start+rowBytes, len(src))
		dst := padded[MinBytesPerRow*i : MinBytesPerRow*(i+1)]
		copy(dst, src[start:end])
	}
	return padded
}
