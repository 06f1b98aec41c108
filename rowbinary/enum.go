package rowbinary

// Enum8/Enum16 are stored on the wire as the variant's integer repr, not
// its name. Callers map between the repr and their Go type (e.g. a defined
// int8/int16 type or a string via a lookup table); this package only
// carries the fixed-width integer.

// WriteEnum8 writes an Enum8 repr.
func (w *Writer) WriteEnum8(v int8) { w.WriteI8(v) }

// ReadEnum8 reads an Enum8 repr.
func (r *Reader) ReadEnum8() (int8, error) { return r.ReadI8() }

// WriteEnum16 writes an Enum16 repr.
func (w *Writer) WriteEnum16(v int16) { w.WriteI16(v) }

// ReadEnum16 reads an Enum16 repr.
func (r *Reader) ReadEnum16() (int16, error) { return r.ReadI16() }

// WriteFixedString writes exactly n raw bytes: a shorter value is
// zero-padded to n, and a value longer than n is rejected with
// ErrTooLarge without writing anything.
func (w *Writer) WriteFixedString(s string, n int) error {
	if len(s) > n {
		return ErrTooLarge
	}
	buf := make([]byte, n)
	copy(buf, s)
	w.WriteFixed(buf)
	return nil
}

// ReadFixedString reads exactly n raw bytes.
func (r *Reader) ReadFixedString(n int) (string, error) {
	buf, err := r.ReadFixed(n)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
