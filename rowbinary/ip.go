package rowbinary

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// WriteIPv4 writes an IPv4 column: the address as a little-endian uint32,
// which is the reverse of dotted-quad network byte order.
func (w *Writer) WriteIPv4(addr netip.Addr) error {
	if !addr.Is4() {
		return fmt.Errorf("rowbinary: %s is not an IPv4 address", addr)
	}
	b := addr.As4()
	w.WriteU32(binary.BigEndian.Uint32(b[:]))
	return nil
}

// ReadIPv4 reads an IPv4 column.
func (r *Reader) ReadIPv4() (netip.Addr, error) {
	v, err := r.ReadU32()
	if err != nil {
		return netip.Addr{}, err
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b), nil
}

// WriteIPv6 writes an IPv6 column: 16 raw bytes in network order.
func (w *Writer) WriteIPv6(addr netip.Addr) error {
	if !addr.Is6() {
		return fmt.Errorf("rowbinary: %s is not an IPv6 address", addr)
	}
	b := addr.As16()
	w.WriteFixed(b[:])
	return nil
}

// ReadIPv6 reads an IPv6 column.
func (r *Reader) ReadIPv6() (netip.Addr, error) {
	raw, err := r.ReadFixed(16)
	if err != nil {
		return netip.Addr{}, err
	}
	var b [16]byte
	copy(b[:], raw)
	return netip.AddrFrom16(b), nil
}
