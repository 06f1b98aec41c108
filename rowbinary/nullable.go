package rowbinary

// WriteNullFlag writes the 1-byte Nullable discriminator: 1 for null, 0 for
// present. Callers write the payload themselves when present is true.
func (w *Writer) WriteNullFlag(isNull bool) {
	if isNull {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// ReadNullFlag reads the Nullable discriminator and reports whether the
// value is null.
func (r *Reader) ReadNullFlag() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}
