package compression

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
)

// DefaultThreshold is the payload size above which values get compressed
const DefaultThreshold = 1024 // 1KB

// Codec tags prefixed to every stored value
const (
	CodecRaw  byte = 0
	CodecGzip byte = 1
)

// ErrUnknownCodec is returned by Decode for an unrecognized header byte
var ErrUnknownCodec = errors.New("unknown codec")

// Encode returns data prefixed with a codec byte, gzip-compressing it when it
// is at least threshold bytes long and compression actually saves space.
func Encode(data []byte, threshold int) ([]byte, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(data) < threshold {
		return append([]byte{CodecRaw}, data...), nil
	}

	var buf bytes.Buffer
	buf.WriteByte(CodecGzip)
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	if buf.Len() >= len(data)+1 {
		return append([]byte{CodecRaw}, data...), nil
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode
func Decode(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("empty value: %w", ErrUnknownCodec)
	}

	switch value[0] {
	case CodecRaw:
		return value[1:], nil
	case CodecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(value[1:]))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()

		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec %d: %w", value[0], ErrUnknownCodec)
	}
}
