package rowbinary

import "time"

// dayEpoch is the ClickHouse Date/Date32 epoch: 1970-01-01.
var dayEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// WriteDate writes a Date column: an unsigned 16-bit count of days since
// the epoch.
func (w *Writer) WriteDate(t time.Time) {
	days := uint16(t.UTC().Sub(dayEpoch) / (24 * time.Hour))
	w.WriteU16(days)
}

// ReadDate reads a Date column.
func (r *Reader) ReadDate() (time.Time, error) {
	days, err := r.ReadU16()
	if err != nil {
		return time.Time{}, err
	}
	return dayEpoch.Add(time.Duration(days) * 24 * time.Hour), nil
}

// WriteDate32 writes a Date32 column: a signed 32-bit count of days since
// the epoch, allowing dates before 1970.
func (w *Writer) WriteDate32(t time.Time) {
	days := int32(t.UTC().Sub(dayEpoch) / (24 * time.Hour))
	w.WriteI32(days)
}

// ReadDate32 reads a Date32 column.
func (r *Reader) ReadDate32() (time.Time, error) {
	days, err := r.ReadI32()
	if err != nil {
		return time.Time{}, err
	}
	return dayEpoch.Add(time.Duration(days) * 24 * time.Hour), nil
}

// WriteDateTime writes a DateTime column: unsigned 32-bit Unix seconds.
func (w *Writer) WriteDateTime(t time.Time) {
	w.WriteU32(uint32(t.Unix()))
}

// ReadDateTime reads a DateTime column.
func (r *Reader) ReadDateTime() (time.Time, error) {
	secs, err := r.ReadU32()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

// datetime64Divisor returns the number of nanoseconds represented by one
// unit of a DateTime64(precision) column.
func datetime64Divisor(precision int) int64 {
	switch {
	case precision <= 0:
		return int64(time.Second)
	case precision >= 9:
		return 1
	default:
		d := int64(time.Second)
		for i := 0; i < precision; i++ {
			d /= 10
		}
		return d
	}
}

// WriteDateTime64 writes a DateTime64(precision) column: a signed 64-bit
// count of precision-scaled units since the Unix epoch.
func (w *Writer) WriteDateTime64(t time.Time, precision int) {
	unit := datetime64Divisor(precision)
	nanos := t.UnixNano()
	w.WriteI64(nanos / unit)
}

// ReadDateTime64 reads a DateTime64(precision) column.
func (r *Reader) ReadDateTime64(precision int) (time.Time, error) {
	v, err := r.ReadI64()
	if err != nil {
		return time.Time{}, err
	}
	unit := datetime64Divisor(precision)
	return time.Unix(0, v*unit).UTC(), nil
}
