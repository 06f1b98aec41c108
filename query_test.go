package ch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vkcom/kittenhouse-client/rowbinary"
)

type u8Row struct {
	v uint8
}

func (u8Row) ColumnNames() []string { return []string{"x"} }

func (r *u8Row) DecodeRowBinary(reader *rowbinary.Reader) error {
	v, err := reader.ReadU8()
	if err != nil {
		return err
	}
	r.v = v
	return nil
}

func (u8Row) EncodeRowBinary(w *rowbinary.Writer) error { return nil }

func newTestCursor(data []byte) *Cursor {
	return &Cursor{reader: rowbinary.NewReader(bytes.NewReader(data))}
}

func TestCursorNextCleanEOF(t *testing.T) {
	cur := newTestCursor([]byte{7})

	var row u8Row
	ok, err := cur.Next(&row)
	if err != nil || !ok || row.v != 7 {
		t.Fatalf("first row: ok=%v err=%v row=%+v", ok, err, row)
	}

	ok, err = cur.Next(&row)
	if ok || err != nil {
		t.Fatalf("expected clean EOF, got ok=%v err=%v", ok, err)
	}
}

func TestCursorNextSurfacesTrailingException(t *testing.T) {
	tail := "Code: 241. DB::Exception: Memory limit exceeded"
	data := append([]byte{7}, []byte(tail)...)
	cur := newTestCursor(data)

	var row u8Row
	ok, err := cur.Next(&row)
	if err != nil || !ok || row.v != 7 {
		t.Fatalf("first row: ok=%v err=%v row=%+v", ok, err, row)
	}

	ok, err = cur.Next(&row)
	if ok {
		t.Fatalf("expected ok=false once the error tail is hit")
	}
	chErr, isChErr := err.(*Error)
	if !isChErr || chErr.Kind != BadResponse || chErr.Status != 200 {
		t.Fatalf("expected a BadResponse/200 *Error, got %#v", err)
	}
	if !strings.Contains(chErr.Text, "Memory limit exceeded") {
		t.Fatalf("expected exception text preserved, got %q", chErr.Text)
	}
}
