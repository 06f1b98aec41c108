// Package ch is a typed client for ClickHouse's HTTP interface: streaming
// queries and inserts over the RowBinary wire format, with optional LZ4
// framing and periodic-commit batch inserts.
//
// A Client is cheap to copy and safe for concurrent use; the Cursor,
// Insert and Inserter values it hands out are not — each belongs to one
// goroutine at a time.
package ch
