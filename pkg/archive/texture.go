package archive

import (
	"fmt"

	"github.com/EchoTools/ddsgpu/pkg/texture"
)

// PackTexture validates data as a DDS file and compresses the bytes its
// layout covers. Trailing bytes past the last level are dropped.
func PackTexture(data []byte, opts ...WriterOption) ([]byte, error) {
	l, err := texture.Decode(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return Compress(data[:l.Consumed()], opts...)
}

// UnpackTexture decompresses an archive and checks that the payload is a
// complete DDS file.
func UnpackTexture(data []byte) ([]byte, error) {
	payload, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if _, err := texture.Decode(payload, nil); err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return payload, nil
}
