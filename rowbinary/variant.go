package rowbinary

// Variant columns are stored as a single discriminant byte followed by the
// chosen alternative's own encoding. The discriminant indexes into the
// Variant's declared type list sorted alphabetically by database type name;
// resolving that ordering is the caller's job (the row's schema descriptor
// knows the declared types), this package only moves the byte.

// WriteVariantTag writes the discriminant selecting one of up to 255
// alternatives.
func (w *Writer) WriteVariantTag(idx int) error {
	if idx < 0 || idx > 255 {
		return ErrTooLarge
	}
	w.WriteU8(uint8(idx))
	return nil
}

// ReadVariantTag reads the discriminant written by WriteVariantTag.
func (r *Reader) ReadVariantTag() (int, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
