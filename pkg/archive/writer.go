package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel favours packing speed; BC payloads compress poorly
// at any level.
const DefaultCompressionLevel = zstd.BestSpeed

type writerOptions struct {
	level int
}

// WriterOption configures a Writer, Encode or Compress.
type WriterOption func(*writerOptions)

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) WriterOption {
	return func(o *writerOptions) {
		o.level = level
	}
}

func buildOptions(opts []WriterOption) writerOptions {
	o := writerOptions{level: DefaultCompressionLevel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Writer streams a payload into an archive. The compressed size is only
// known once the frame is closed, so the header is written as a placeholder
// and patched in Close.
type Writer struct {
	dst     io.WriteSeeker
	start   int64
	header  *Header
	zWriter *zstd.Writer
}

// NewWriter writes a placeholder header at the current position of dst.
func NewWriter(dst io.WriteSeeker, uncompressedSize uint64, opts ...WriterOption) (*Writer, error) {
	o := buildOptions(opts)

	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	w := &Writer{
		dst:    dst,
		start:  start,
		header: NewHeader(uncompressedSize, 0),
	}
	headerBytes, _ := w.header.MarshalBinary()
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, o.level)
	return w, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.zWriter.Write(p)
}

// Close flushes the frame and rewrites the header with the compressed size,
// leaving dst positioned after the frame.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	end, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedSize = uint64(end - w.start - HeaderSize)

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	headerBytes, _ := w.header.MarshalBinary()
	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.dst.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// Encode compresses data into an archive written to dst.
func Encode(dst io.WriteSeeker, data []byte, opts ...WriterOption) error {
	w, err := NewWriter(dst, uint64(len(data)), opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return w.Close()
}

// Compress returns data as an in-memory archive.
func Compress(data []byte, opts ...WriterOption) ([]byte, error) {
	o := buildOptions(opts)

	frame, err := zstd.CompressLevel(nil, data, o.level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	out := make([]byte, HeaderSize+len(frame))
	NewHeader(uint64(len(data)), uint64(len(frame))).EncodeTo(out)
	copy(out[HeaderSize:], frame)
	return out, nil
}
