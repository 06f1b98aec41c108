package rowbinary

import (
	"encoding/binary"
	"math"
)

// Writer encodes RowBinary values into a growable byte buffer. Insert
// keeps one per session and flushes it to the HTTP body once it grows
// past a threshold; see Insert.WriteRow.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer. Callers typically reuse one across
// many rows via Reset.
func NewWriter() *Writer {
	return &Writer{}
}

// Reset clears the buffer, retaining its capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Len returns the number of unflushed bytes currently buffered.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the buffered bytes. The slice is only valid until the next
// mutating call.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteByte implements io.ByteWriter, used by WriteUvarint.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteI8(v int8) {
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

func (w *Writer) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteU128(v [16]byte) {
	w.buf = append(w.buf, v[:]...)
}

func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteFixed writes raw bytes with no length prefix (FixedString, UUID).
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString writes a varuint length prefix followed by the string bytes.
func (w *Writer) WriteString(s string) {
	_ = WriteUvarint(w, uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteBytes writes a varuint length prefix followed by the raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	_ = WriteUvarint(w, uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteArrayLen writes the varuint element count ahead of an Array/Map body.
func (w *Writer) WriteArrayLen(n int) {
	_ = WriteUvarint(w, uint64(n))
}
