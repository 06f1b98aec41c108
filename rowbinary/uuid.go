package rowbinary

import "github.com/google/uuid"

// swapUUIDHalves reverses the byte order of each 8-byte half of a UUID.
// ClickHouse stores each half as a little-endian machine word rather than
// in RFC 4122 big-endian order, so the wire representation of
// 00112233-4455-6677-8899-aabbccddeeff is 77665544 33221100 ffeeddcc bbaa9988.
func swapUUIDHalves(b [16]byte) [16]byte {
	var out [16]byte
	for i := 0; i < 8; i++ {
		out[i] = b[7-i]
		out[8+i] = b[15-i]
	}
	return out
}

// WriteUUID writes a UUID using ClickHouse's swapped-half byte order.
func (w *Writer) WriteUUID(u uuid.UUID) {
	w.WriteFixed(func() []byte {
		swapped := swapUUIDHalves([16]byte(u))
		return swapped[:]
	}())
}

// ReadUUID reads a UUID encoded with ClickHouse's swapped-half byte order.
func (r *Reader) ReadUUID() (uuid.UUID, error) {
	raw, err := r.ReadFixed(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var b [16]byte
	copy(b[:], raw)
	return uuid.UUID(swapUUIDHalves(b)), nil
}
