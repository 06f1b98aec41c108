package lz4block

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const (
	checksumSize   = 16
	blockHeaderLen = 9 // method(1) + compressed_size(4) + uncompressed_size(4)
	metaSize       = checksumSize + blockHeaderLen

	methodNone = 0x02
	methodLZ4  = 0x82

	// maxCompressedSize mirrors the sanity bound the reference client
	// enforces before allocating a decompression buffer.
	maxCompressedSize = 1 << 30
)

// ErrChecksumMismatch is returned when a block's CityHash128 checksum does
// not match its declared contents; it always maps to Error.Decompression
// at the ch package boundary.
var ErrChecksumMismatch = errors.New("lz4block: checksum mismatch")

// ErrMalformedBlock is returned for headers that fail basic structural
// validation (unknown method byte, implausible declared compressed size).
var ErrMalformedBlock = errors.New("lz4block: malformed block header")

// Level selects the LZ4 compression effort. Level 0 means the fast
// default; Level 1..12 requests LZ4HC at the given ClickHouse-facing
// level, clamped onto pierrec's 1..9 HC scale.
type Level int

func hcLevel(l Level) lz4.CompressionLevel {
	switch {
	case l <= 1:
		return lz4.Level1
	case l >= 9:
		return lz4.Level9
	default:
		return lz4.CompressionLevel(uint32(lz4.Level1) << uint(l-1))
	}
}

// EncodeBlock compresses uncompressed and appends the framed block
// (checksum + header + payload) to dst, returning the extended slice.
func EncodeBlock(dst, uncompressed []byte, level Level) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(uncompressed))
	start := len(dst)
	dst = append(dst, make([]byte, metaSize+bound)...)

	payload := dst[start+metaSize:]

	var n int
	var err error
	if level <= 0 {
		var c lz4.Compressor
		n, err = c.CompressBlock(uncompressed, payload)
	} else {
		var c lz4.CompressorHC
		c.Level = hcLevel(level)
		n, err = c.CompressBlock(uncompressed, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4block: compress: %w", err)
	}
	if n == 0 && len(uncompressed) > 0 {
		// payload is sized by CompressBlockBound, which covers the worst
		// case, so a 0 length for non-empty input is not a valid block;
		// it is reported as an error rather than framed.
		return nil, fmt.Errorf("lz4block: compress: unexpected empty output")
	}

	header := dst[start+checksumSize : start+metaSize]
	header[0] = methodLZ4
	binary.LittleEndian.PutUint32(header[1:5], uint32(blockHeaderLen+n))
	binary.LittleEndian.PutUint32(header[5:9], uint32(len(uncompressed)))

	dst = dst[:start+metaSize+n]

	lo, hi := cityHash128(dst[start+checksumSize:])
	binary.LittleEndian.PutUint64(dst[start:start+8], lo)
	binary.LittleEndian.PutUint64(dst[start+8:start+16], hi)

	return dst, nil
}

// blockHeader describes a parsed, not-yet-verified block header.
type blockHeader struct {
	checksumLo, checksumHi uint64
	method                 byte
	compressedSize         uint32 // includes blockHeaderLen
	uncompressedSize       uint32
}

func parseHeader(meta []byte) (blockHeader, error) {
	h := blockHeader{
		checksumLo:       binary.LittleEndian.Uint64(meta[0:8]),
		checksumHi:       binary.LittleEndian.Uint64(meta[8:16]),
		method:           meta[16],
		compressedSize:   binary.LittleEndian.Uint32(meta[17:21]),
		uncompressedSize: binary.LittleEndian.Uint32(meta[21:25]),
	}
	if h.method != methodLZ4 && h.method != methodNone {
		return h, fmt.Errorf("%w: unknown method byte 0x%02x", ErrMalformedBlock, h.method)
	}
	if h.compressedSize < blockHeaderLen || h.compressedSize > maxCompressedSize {
		return h, fmt.Errorf("%w: implausible compressed size %d", ErrMalformedBlock, h.compressedSize)
	}
	return h, nil
}

// DecodeBlock verifies and decompresses a single framed block starting at
// the beginning of framed. It returns the decompressed payload and the
// number of bytes of framed consumed.
func DecodeBlock(framed []byte) (decoded []byte, consumed int, err error) {
	if len(framed) < metaSize {
		return nil, 0, ErrNotEnoughData
	}

	h, err := parseHeader(framed[:metaSize])
	if err != nil {
		return nil, 0, err
	}

	total := checksumSize + int(h.compressedSize)
	if len(framed) < total {
		return nil, 0, ErrNotEnoughData
	}

	body := framed[checksumSize:total]
	gotLo, gotHi := cityHash128(body)
	if gotLo != h.checksumLo || gotHi != h.checksumHi {
		return nil, 0, ErrChecksumMismatch
	}

	payload := body[blockHeaderLen:]

	switch h.method {
	case methodNone:
		decoded = append([]byte(nil), payload...)
	case methodLZ4:
		decoded = make([]byte, h.uncompressedSize)
		n, err := lz4.UncompressBlock(payload, decoded)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4block: decompress: %w", err)
		}
		decoded = decoded[:n]
	}

	return decoded, total, nil
}

// ErrNotEnoughData is returned by DecodeBlock when framed does not yet
// contain a complete block; the caller should read more bytes and retry.
var ErrNotEnoughData = errors.New("lz4block: not enough data for a full block")
