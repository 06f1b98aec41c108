package ch

import "github.com/vkcom/kittenhouse-client/rowbinary"

// Row is implemented by callers' generated or hand-written per-table
// types. There is no reflection-based fallback: encoding and decoding are
// always explicit, matching how the wire format itself has no schema
// self-description beyond column order.
type Row interface {
	// ColumnNames lists the table columns this Row reads or writes, in
	// the order EncodeRowBinary/DecodeRowBinary expect them on the wire.
	// The package does not call it: `?fields` is expanded by ExpandFields
	// from a column list the caller passes (see Client.Insert).
	ColumnNames() []string

	// EncodeRowBinary writes one row's columns, in ColumnNames order.
	EncodeRowBinary(w *rowbinary.Writer) error

	// DecodeRowBinary reads one row's columns, in ColumnNames order. It
	// is called with the Cursor's Reader positioned at a row boundary;
	// Cursor.Next handles end-of-stream detection itself.
	DecodeRowBinary(r *rowbinary.Reader) error
}
