// Package rowbinary encodes and decodes ClickHouse's RowBinary wire format.
//
// Values are written with no framing, in schema order: fixed-width
// little-endian integers and floats, a varuint length prefix ahead of
// strings and arrays, a single null-flag byte ahead of Nullable values,
// and plain concatenation for tuples. See
// https://clickhouse.com/docs/en/interfaces/formats#rowbinary for the
// upstream description; the quirks called out below (UUID and IPv4 byte
// order) are not documented there and were reverse engineered from the
// reference client.
package rowbinary
