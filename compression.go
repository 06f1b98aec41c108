package ch

import "github.com/vkcom/kittenhouse-client/lz4block"

// Compression selects how request and response bodies are framed on the
// wire. It is a client-side setting only: the server is told about it via
// the compress/decompress URL parameters chhttp.Params sets.
type Compression struct {
	kind  compressionKind
	level lz4block.Level
}

type compressionKind int

const (
	compressionNone compressionKind = iota
	compressionLZ4
	compressionZSTD
)

// NoCompression disables LZ4 framing entirely.
func NoCompression() Compression {
	return Compression{kind: compressionNone}
}

// LZ4 selects the fast, low-CPU LZ4 compressor.
func LZ4() Compression {
	return Compression{kind: compressionLZ4, level: 0}
}

// LZ4HC selects the high-compression LZ4 variant at the given level
// (1-12, ClickHouse's own scale; levels above 12 are clamped by
// lz4block.EncodeBlock, and a level of 0 or below selects plain LZ4).
func LZ4HC(level int) Compression {
	return Compression{kind: compressionLZ4, level: lz4block.Level(level)}
}

// ZSTD selects zstd framing. This is a client-local fallback for reading
// zstd-compressed dumps; ClickHouse's HTTP compress=1 negotiation always
// produces LZ4, so ZSTD only ever applies to Compression passed for
// reading a pre-compressed file, not to compress/decompress query params.
func ZSTD() Compression {
	return Compression{kind: compressionZSTD}
}

func (c Compression) enabled() bool {
	return c.kind != compressionNone
}

func (c Compression) queryParamValue() bool {
	return c.kind == compressionLZ4
}
