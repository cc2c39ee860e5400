package texture

import (
	"fmt"
	"math"
)

// CubeFace names a cubemap face in storage order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

var cubeFaceNames = [...]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f CubeFace) String() string {
	if f < 0 || int(f) >= len(cubeFaceNames) {
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
	return cubeFaceNames[f]
}

// MipLevel is one sub-image of a face. Data borrows from the decoded buffer.
type MipLevel struct {
	Level  int
	Width  int
	Height int
	Format Format
	Offset int // absolute offset of Data in the source buffer
	Data   []byte
}

// Face is the mip chain of one image, finest level first.
type Face struct {
	Index  int
	Levels []MipLevel
}

// Layout is the planned placement of every face and level of a texture.
type Layout struct {
	Faces      []Face
	Width      int
	Height     int
	Depth      int
	LevelCount int
	Format     Format
	Cubemap    bool
	DataOffset int // first byte of face 0, level 0
	DataEnd    int // one past the last byte of the last face
}

// Consumed is the number of leading bytes of the source the layout covers.
func (l *Layout) Consumed() int { return l.DataEnd }

// LevelSize is the encoded size of a width x height image. Dimensions below
// one block still occupy a whole 4x4 block. Sizes that do not fit in an int
// saturate at math.MaxInt.
func LevelSize(width, height int, format Format) int {
	blocksW := (uint64(max(width, 4)) + 3) / 4
	blocksH := (uint64(max(height, 4)) + 3) / 4
	blockBytes := uint64(format.BlockBytes())
	if blockBytes == 0 {
		return 0
	}
	limit := uint64(math.MaxInt) / blockBytes
	if blocksW > limit || blocksH > limit/blocksW {
		return math.MaxInt
	}
	return int(blocksW * blocksH * blockBytes)
}

// mipDims tracks a level's dimensions as unfloored halves so that odd sizes
// shrink on the same schedule as files produced by reference encoders.
type mipDims struct {
	w, h float64
}

func (d mipDims) size() (int, int) {
	return max(1, int(d.w)), max(1, int(d.h))
}

func (d *mipDims) next() {
	if d.w > 1 {
		d.w *= 0.5
	}
	if d.h > 1 {
		d.h *= 0.5
	}
}

// MipChain returns the width and height of each of the first levels of a
// width x height image.
func MipChain(width, height uint32, levels int) [][2]int {
	chain := make([][2]int, 0, levels)
	d := mipDims{float64(width), float64(height)}
	for range levels {
		w, h := d.size()
		chain = append(chain, [2]int{w, h})
		d.next()
	}
	return chain
}

// Plan walks the data region of data and places every face and level
// described by h. It fails with a *TruncatedDataError when any range runs
// past the end of data.
func Plan(h *Header, data []byte) (*Layout, error) {
	start := h.DataOffset()
	if start > len(data) {
		return nil, &TruncatedDataError{Offset: 0, Required: start, Available: len(data)}
	}

	format := h.Format()
	faces := make([]Face, h.FaceCount())
	cursor := start
	for i := range faces {
		d := mipDims{float64(h.Width()), float64(h.Height())}
		levels := make([]MipLevel, 0, min(h.MipLevels(), 32))
		for level := 0; level < h.MipLevels(); level++ {
			w, hh := d.size()
			n := LevelSize(w, hh, format)
			if n > len(data)-cursor {
				return nil, &TruncatedDataError{Offset: cursor, Required: n, Available: len(data) - cursor}
			}
			levels = append(levels, MipLevel{
				Level:  level,
				Width:  w,
				Height: hh,
				Format: format,
				Offset: cursor,
				// Capacity stops at the end of the file, not of its buffer.
				Data: data[cursor : cursor+n : len(data)],
			})
			cursor += n
			d.next()
		}
		faces[i] = Face{Index: i, Levels: levels}
	}

	base := faces[0].Levels[0]
	return &Layout{
		Faces:      faces,
		Width:      base.Width,
		Height:     base.Height,
		Depth:      1,
		LevelCount: len(faces[0].Levels),
		Format:     format,
		Cubemap:    h.Cubemap(),
		DataOffset: start,
		DataEnd:    cursor,
	}, nil
}

// Decode parses the header of data and plans its layout. opts may be nil.
func Decode(data []byte, opts *DecodeOptions) (*Layout, error) {
	h, err := ParseHeader(data, opts)
	if err != nil {
		return nil, err
	}
	return Plan(h, data)
}
