package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// Reader decompresses the payload of an archive stream.
type Reader struct {
	header  Header
	zReader io.ReadCloser
}

// NewReader reads and validates the header from r. Reads from the returned
// Reader yield the decompressed payload.
func NewReader(r io.Reader) (*Reader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	reader := &Reader{}
	if err := reader.header.UnmarshalBinary(buf[:]); err != nil {
		return nil, err
	}
	reader.zReader = zstd.NewReader(io.LimitReader(r, int64(reader.header.CompressedSize)))
	return reader, nil
}

func (r *Reader) Header() Header { return r.header }

func (r *Reader) Read(p []byte) (int, error) {
	return r.zReader.Read(p)
}

func (r *Reader) Close() error {
	return r.zReader.Close()
}

// ReadAll reads a whole archive from r and returns the payload.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.header.UncompressedSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

// Decode decompresses an archive held in memory.
func Decode(data []byte) ([]byte, error) {
	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	frame := data[HeaderSize:]
	if uint64(len(frame)) < h.CompressedSize {
		return nil, fmt.Errorf("%w: frame is %d bytes, header declares %d", ErrSizeMismatch, len(frame), h.CompressedSize)
	}
	frame = frame[:h.CompressedSize]

	payload, err := zstd.Decompress(nil, frame)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if uint64(len(payload)) != h.UncompressedSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, header declares %d", ErrSizeMismatch, len(payload), h.UncompressedSize)
	}
	return payload, nil
}
