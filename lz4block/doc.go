// Package lz4block implements ClickHouse's compressed block framing used
// on both insert request bodies and query response bodies when LZ4
// compression is negotiated:
//
//	[checksum(16) | method(1) | compressed_size(4) | uncompressed_size(4) | payload]
//
// The checksum covers everything from the method byte through the end of
// the payload (i.e. compressed_size bytes) and is computed with CityHash128
// (see cityhash128.go). Block boundaries may fall anywhere in the
// underlying byte stream, including inside a row; Source and Sink handle
// that by buffering.
package lz4block
