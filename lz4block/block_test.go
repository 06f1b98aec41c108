package lz4block

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestEncodeDecodeBlockRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("x"),
		[]byte(strings.Repeat("clickhouse row binary payload ", 5000)),
	}

	for _, payload := range payloads {
		framed, err := EncodeBlock(nil, payload, 0)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, consumed, err := DecodeBlock(framed)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if consumed != len(framed) {
			t.Fatalf("consumed %d, want %d", consumed, len(framed))
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("payload mismatch: got %d bytes, want %d", len(decoded), len(payload))
		}
	}
}

func TestEncodeDecodeBlockHC(t *testing.T) {
	payload := []byte(strings.Repeat("abcdefgh", 1000))

	framed, err := EncodeBlock(nil, payload, 9)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, _, err := DecodeBlock(framed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestChecksumMismatchOnBitFlip(t *testing.T) {
	payload := []byte(strings.Repeat("data", 100))
	framed, err := EncodeBlock(nil, payload, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flip all eight bits of the last payload byte, well past the checksum.
	flipped := append([]byte(nil), framed...)
	flipped[len(flipped)-1] ^= 0xff

	if _, _, err := DecodeBlock(flipped); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("got %v, want ErrChecksumMismatch", err)
	}
}

func TestSourceAcrossFragmentedReads(t *testing.T) {
	payload := []byte(strings.Repeat("row-binary stream fragment ", 3000))
	framed, err := EncodeBlock(nil, payload, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for split := 1; split < len(framed); split += 37 {
		r := io.MultiReader(bytes.NewReader(framed[:split]), bytes.NewReader(framed[split:]))
		src := NewSource(r)
		got, err := io.ReadAll(src)
		if err != nil {
			t.Fatalf("split %d: read: %v", split, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("split %d: payload mismatch", split)
		}
	}
}

func TestSinkFlushesMultipleBlocks(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, 0)

	total := workingBufferSize*2 + 12345
	payload := bytes.Repeat([]byte{0xab}, total)

	if _, err := sink.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	src := NewSource(&out)
	got, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestCityHash128IsDeterministicAndSensitiveToInput(t *testing.T) {
	lo1, hi1 := cityHash128([]byte("clickhouse"))
	lo2, hi2 := cityHash128([]byte("clickhouse"))
	if lo1 != lo2 || hi1 != hi2 {
		t.Fatalf("cityHash128 not deterministic")
	}

	lo3, hi3 := cityHash128([]byte("ClickHouse"))
	if lo1 == lo3 && hi1 == hi3 {
		t.Fatalf("cityHash128 collided on a single-bit case change")
	}
}
