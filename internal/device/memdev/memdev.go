// Package memdev is an in-memory upload.Device. It keeps every texture it is
// asked to create and applies submitted copies to per-level byte images, so
// callers can inspect exactly what a GPU would have received.
package memdev

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/EchoTools/ddsgpu/pkg/upload"
)

var (
	ErrUnknownTexture = errors.New("memdev: unknown texture")
	ErrUnknownBuffer  = errors.New("memdev: unknown buffer")
	ErrBadMipLevel    = errors.New("memdev: mip level out of range")
)

// Texture is a texture created on a Device.
type Texture struct {
	ID         uuid.UUID
	Descriptor upload.TextureDescriptor
	// Levels holds, per mip level, the buffer bytes of the last copy into it.
	Levels [][]byte
	// Pitches holds the row pitch of the last copy into each level.
	Pitches []int
}

// Buffer is a temporary staging buffer.
type Buffer struct {
	ID   uuid.UUID
	Data []byte
}

// Batch is a submitted batch, kept in submission order.
type Batch struct {
	Copies []upload.Copy
}

// Device records textures, buffers and batches. It is safe for concurrent use.
type Device struct {
	mu       sync.Mutex
	textures map[uuid.UUID]*Texture
	buffers  map[uuid.UUID]*Buffer
	batches  []Batch
	released int
}

// New returns an empty Device.
func New() *Device {
	return &Device{
		textures: make(map[uuid.UUID]*Texture),
		buffers:  make(map[uuid.UUID]*Buffer),
	}
}

func (d *Device) CreateTexture(desc upload.TextureDescriptor) (upload.TextureHandle, error) {
	if desc.MipLevelCount < 1 {
		return nil, fmt.Errorf("memdev: mip level count %d", desc.MipLevelCount)
	}
	t := &Texture{
		ID:         uuid.New(),
		Descriptor: desc,
		Levels:     make([][]byte, desc.MipLevelCount),
		Pitches:    make([]int, desc.MipLevelCount),
	}
	d.mu.Lock()
	d.textures[t.ID] = t
	d.mu.Unlock()
	return t, nil
}

func (d *Device) CreateTemporaryBuffer(data []byte) (upload.BufferHandle, error) {
	b := &Buffer{ID: uuid.New(), Data: slices.Clone(data)}
	d.mu.Lock()
	d.buffers[b.ID] = b
	d.mu.Unlock()
	return b, nil
}

// SubmitUploadBatch validates every copy before applying any of them.
func (d *Device) SubmitUploadBatch(batch []upload.Copy) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, c := range batch {
		t, ok := c.Texture.(*Texture)
		if !ok || d.textures[t.ID] != t {
			return fmt.Errorf("copy %d: %w", i, ErrUnknownTexture)
		}
		b, ok := c.Buffer.(*Buffer)
		if !ok || d.buffers[b.ID] != b {
			return fmt.Errorf("copy %d: %w", i, ErrUnknownBuffer)
		}
		if c.MipLevel < 0 || c.MipLevel >= len(t.Levels) {
			return fmt.Errorf("copy %d: %w: %d", i, ErrBadMipLevel, c.MipLevel)
		}
	}

	for _, c := range batch {
		t := c.Texture.(*Texture)
		t.Levels[c.MipLevel] = c.Buffer.(*Buffer).Data
		t.Pitches[c.MipLevel] = c.BytesPerRow
	}
	d.batches = append(d.batches, Batch{Copies: slices.Clone(batch)})
	return nil
}

func (d *Device) ReleaseTemporaryBuffer(buf upload.BufferHandle) {
	b, ok := buf.(*Buffer)
	if !ok {
		return
	}
	d.mu.Lock()
	if _, live := d.buffers[b.ID]; live {
		delete(d.buffers, b.ID)
		d.released++
	}
	d.mu.Unlock()
}

func (d *Device) ReleaseTexture(tex upload.TextureHandle) {
	t, ok := tex.(*Texture)
	if !ok {
		return
	}
	d.mu.Lock()
	delete(d.textures, t.ID)
	d.mu.Unlock()
}

// Batches returns the submitted batches in order.
func (d *Device) Batches() []Batch {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.batches)
}

// LiveBuffers is the number of temporary buffers not yet released.
func (d *Device) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

// ReleasedBuffers is the number of temporary buffers released so far.
func (d *Device) ReleasedBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Textures returns the live textures.
func (d *Device) Textures() []*Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Texture, 0, len(d.textures))
	for _, t := range d.textures {
		out = append(out, t)
	}
	return out
}
