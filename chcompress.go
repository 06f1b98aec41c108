package ch

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/vkcom/kittenhouse-client/lz4block"
)

// compressWriter wraps under so that bytes written to it arrive at under
// framed per c. For compressionNone it returns under itself, wrapped in a
// no-op Closer.
func compressWriter(under io.Writer, c Compression) (io.WriteCloser, error) {
	switch c.kind {
	case compressionNone:
		return nopWriteCloser{under}, nil
	case compressionLZ4:
		return lz4block.NewSink(under, c.level), nil
	case compressionZSTD:
		return zstd.NewWriter(under)
	default:
		return nopWriteCloser{under}, nil
	}
}

// decompressReader wraps under so that reads come back inflated per c.
func decompressReader(under io.Reader, c Compression) (io.Reader, error) {
	switch c.kind {
	case compressionNone:
		return under, nil
	case compressionLZ4:
		return lz4block.NewSource(under), nil
	case compressionZSTD:
		dec, err := zstd.NewReader(under)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return under, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
