// Package upload turns a planned texture layout into row-pitch-aligned copy
// instructions and submits them to a GPU device as a single batch.
package upload

import (
	"fmt"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

// Usage is a bitmask of texture usages, numbered as in WebGPU.
type Usage uint32

const (
	UsageCopySrc Usage = 0x01
	UsageCopyDst Usage = 0x02
	UsageSampled Usage = 0x04
)

// Extent3D is the size of a copy or texture in texels.
type Extent3D struct {
	Width              int
	Height             int
	DepthOrArrayLayers int
}

// TextureDescriptor is passed to Device.CreateTexture.
type TextureDescriptor struct {
	Label         string
	Size          Extent3D
	MipLevelCount int
	Format        texture.Format
	Usage         Usage
}

// TextureHandle and BufferHandle are opaque values owned by a Device.
type (
	TextureHandle any
	BufferHandle  any
)

// Copy is one buffer-to-texture copy inside a submitted batch.
type Copy struct {
	Buffer      BufferHandle
	BytesPerRow int
	Texture     TextureHandle
	MipLevel    int
	Extent      Extent3D
}

// Device is the GPU collaborator. SubmitUploadBatch must apply the copies in
// order as one unit of work; it may return before the GPU has executed them.
type Device interface {
	CreateTexture(desc TextureDescriptor) (TextureHandle, error)
	CreateTemporaryBuffer(data []byte) (BufferHandle, error)
	SubmitUploadBatch(batch []Copy) error
	ReleaseTemporaryBuffer(buf BufferHandle)
	ReleaseTexture(tex TextureHandle)
}

type options struct {
	log   logger.Logger
	label string
}

// Option configures Upload.
type Option func(*options)

// WithLogger sets the logger used for progress messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithLabel sets the debug label of the created texture.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Upload creates a texture sized for l on dev and uploads every mip level of
// face 0 in one batch. Temporary buffers are released right after the batch
// is submitted, without waiting for it to execute.
//
// Only face 0 is uploaded, so a cubemap produces a texture holding its +X face.
func Upload(dev Device, l *texture.Layout, opts ...Option) (TextureHandle, error) {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With("texture", o.label)

	instructions := Plan(l)
	if l.Cubemap {
		log.Warn("cubemap upload is limited to face 0", "faces", len(l.Faces))
	}

	tex, err := dev.CreateTexture(TextureDescriptor{
		Label:         o.label,
		Size:          Extent3D{Width: l.Width, Height: l.Height, DepthOrArrayLayers: l.Depth},
		MipLevelCount: l.LevelCount,
		Format:        l.Format,
		Usage:         UsageCopyDst | UsageSampled,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	buffers := make([]BufferHandle, 0, len(instructions))
	releaseBuffers := func() {
		for _, b := range buffers {
			dev.ReleaseTemporaryBuffer(b)
		}
	}

	batch := make([]Copy, 0, len(instructions))
	for _, in := range instructions {
		buf, err := dev.CreateTemporaryBuffer(in.Data)
		if err != nil {
			releaseBuffers()
			dev.ReleaseTexture(tex)
			return nil, fmt.Errorf("create buffer for level %d: %w", in.Level, err)
		}
		buffers = append(buffers, buf)
		batch = append(batch, Copy{
			Buffer:      buf,
			BytesPerRow: in.BytesPerRow,
			Texture:     tex,
			MipLevel:    in.Level,
			Extent:      in.Extent,
		})
		log.Debug("staged level", "level", in.Level, "bytes", len(in.Data), "bytes_per_row", in.BytesPerRow, "padded", in.Padded)
	}

	err = dev.SubmitUploadBatch(batch)
	releaseBuffers()
	if err != nil {
		dev.ReleaseTexture(tex)
		return nil, fmt.Errorf("submit upload batch: %w", err)
	}

	log.Info("submitted upload batch", "format", l.Format.String(), "width", l.Width, "height", l.Height, "levels", len(batch))
	return tex, nil
}

// FromBytes decodes a DDS file held in data and uploads it to dev. No device
// resources are created unless the whole file decodes.
func FromBytes(dev Device, data []byte, srgb bool, opts ...Option) (TextureHandle, error) {
	l, err := texture.Decode(data, &texture.DecodeOptions{SRGB: srgb})
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Upload(dev, l, opts...)
}
