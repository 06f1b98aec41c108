package rowbinary

import (
	"bytes"
	"math"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
)

func roundTripReader(t *testing.T, w *Writer) *Reader {
	t.Helper()
	return NewReader(bytes.NewReader(w.Bytes()))
}

func TestIntRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteI8(-5)
	w.WriteU8(250)
	w.WriteI16(-1000)
	w.WriteU16(60000)
	w.WriteI32(-100000)
	w.WriteU32(4000000000)
	w.WriteI64(-1 << 40)
	w.WriteU64(1 << 63)

	r := roundTripReader(t, w)

	if v, _ := r.ReadI8(); v != -5 {
		t.Fatalf("i8 = %d", v)
	}
	if v, _ := r.ReadU8(); v != 250 {
		t.Fatalf("u8 = %d", v)
	}
	if v, _ := r.ReadI16(); v != -1000 {
		t.Fatalf("i16 = %d", v)
	}
	if v, _ := r.ReadU16(); v != 60000 {
		t.Fatalf("u16 = %d", v)
	}
	if v, _ := r.ReadI32(); v != -100000 {
		t.Fatalf("i32 = %d", v)
	}
	if v, _ := r.ReadU32(); v != 4000000000 {
		t.Fatalf("u32 = %d", v)
	}
	if v, _ := r.ReadI64(); v != -1<<40 {
		t.Fatalf("i64 = %d", v)
	}
	if v, _ := r.ReadU64(); v != 1<<63 {
		t.Fatalf("u64 = %d", v)
	}
}

func TestFloatRoundTripBitExact(t *testing.T) {
	nan32 := math.Float32frombits(0x7fc00001)
	nan64 := math.Float64frombits(0x7ff8000000000001)

	w := NewWriter()
	w.WriteF32(3.14159)
	w.WriteF64(2.71828182845904523536)
	w.WriteF32(nan32)
	w.WriteF64(nan64)

	r := roundTripReader(t, w)

	f32, _ := r.ReadF32()
	if math.Float32bits(f32) != math.Float32bits(3.14159) {
		t.Fatalf("f32 mismatch")
	}
	f64, _ := r.ReadF64()
	if math.Float64bits(f64) != math.Float64bits(2.71828182845904523536) {
		t.Fatalf("f64 mismatch")
	}
	gotNan32, _ := r.ReadF32()
	if math.Float32bits(gotNan32) != math.Float32bits(nan32) {
		t.Fatalf("nan32 payload not preserved: got %x want %x", math.Float32bits(gotNan32), math.Float32bits(nan32))
	}
	gotNan64, _ := r.ReadF64()
	if math.Float64bits(gotNan64) != math.Float64bits(nan64) {
		t.Fatalf("nan64 payload not preserved: got %x want %x", math.Float64bits(gotNan64), math.Float64bits(nan64))
	}
}

func TestStringAndBytesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteString("")
	w.WriteString("hello, clickhouse")
	w.WriteBytes([]byte{0, 1, 2, 255})

	r := roundTripReader(t, w)

	s1, _ := r.ReadString()
	if s1 != "" {
		t.Fatalf("empty string got %q", s1)
	}
	s2, _ := r.ReadString()
	if s2 != "hello, clickhouse" {
		t.Fatalf("string got %q", s2)
	}
	b, _ := r.ReadBytes()
	if !bytes.Equal(b, []byte{0, 1, 2, 255}) {
		t.Fatalf("bytes got %v", b)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	values := []int32{1, 2, 3, -4, 5}

	w := NewWriter()
	w.WriteArrayLen(len(values))
	for _, v := range values {
		w.WriteI32(v)
	}

	r := roundTripReader(t, w)
	n, err := r.ReadArrayLen()
	if err != nil || n != len(values) {
		t.Fatalf("array len = %d, err = %v", n, err)
	}
	for i := 0; i < n; i++ {
		v, err := r.ReadI32()
		if err != nil || v != values[i] {
			t.Fatalf("element %d = %d, err = %v", i, v, err)
		}
	}
}

func TestNullableRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteNullFlag(true)
	w.WriteNullFlag(false)
	w.WriteI32(42)

	r := roundTripReader(t, w)
	isNull, _ := r.ReadNullFlag()
	if !isNull {
		t.Fatalf("expected null")
	}
	isNull, _ = r.ReadNullFlag()
	if isNull {
		t.Fatalf("expected non-null")
	}
	v, _ := r.ReadI32()
	if v != 42 {
		t.Fatalf("value = %d", v)
	}
}

func TestTupleIsPlainConcatenation(t *testing.T) {
	w := NewWriter()
	w.WriteI32(1)
	w.WriteString("two")
	w.WriteBool(true)

	r := roundTripReader(t, w)
	a, _ := r.ReadI32()
	b, _ := r.ReadString()
	c, _ := r.ReadBool()
	if a != 1 || b != "two" || !c {
		t.Fatalf("tuple mismatch: %d %q %v", a, b, c)
	}
}

func TestUUIDEndianness(t *testing.T) {
	u := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")

	w := NewWriter()
	w.WriteUUID(u)

	want := []byte{0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00, 0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("wire bytes = %x, want %x", w.Bytes(), want)
	}

	r := roundTripReader(t, w)
	got, err := r.ReadUUID()
	if err != nil {
		t.Fatalf("read uuid: %v", err)
	}
	if got != u {
		t.Fatalf("round trip = %s, want %s", got, u)
	}
}

func TestIPv4IsReversedFromNetworkOrder(t *testing.T) {
	addr := netip.MustParseAddr("1.2.3.4")

	w := NewWriter()
	if err := w.WriteIPv4(addr); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := []byte{4, 3, 2, 1}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("wire bytes = %v, want %v", w.Bytes(), want)
	}

	r := roundTripReader(t, w)
	got, err := r.ReadIPv4()
	if err != nil || got != addr {
		t.Fatalf("round trip = %s, err = %v", got, err)
	}
}

func TestIPv6RoundTrip(t *testing.T) {
	addr := netip.MustParseAddr("2001:db8::1")

	w := NewWriter()
	if err := w.WriteIPv6(addr); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := roundTripReader(t, w)
	got, err := r.ReadIPv6()
	if err != nil || got != addr {
		t.Fatalf("round trip = %s, err = %v", got, err)
	}
}

func TestDateFamilyRoundTrip(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	w := NewWriter()
	w.WriteDate(d)
	w.WriteDate32(d)
	w.WriteDateTime(d)
	w.WriteDateTime64(d.Add(123*time.Millisecond), 3)

	r := roundTripReader(t, w)

	gotDate, _ := r.ReadDate()
	if !gotDate.Equal(d) {
		t.Fatalf("Date = %s, want %s", gotDate, d)
	}
	gotDate32, _ := r.ReadDate32()
	if !gotDate32.Equal(d) {
		t.Fatalf("Date32 = %s, want %s", gotDate32, d)
	}
	gotDT, _ := r.ReadDateTime()
	if !gotDT.Equal(d) {
		t.Fatalf("DateTime = %s, want %s", gotDT, d)
	}
	gotDT64, _ := r.ReadDateTime64(3)
	if !gotDT64.Equal(d.Add(123 * time.Millisecond)) {
		t.Fatalf("DateTime64 = %s, want %s", gotDT64, d.Add(123*time.Millisecond))
	}
}

func TestFixedStringPadsAndTruncationErrors(t *testing.T) {
	w := NewWriter()
	if err := w.WriteFixedString("ab", 5); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.WriteFixedString("toolong", 3); err == nil {
		t.Fatalf("expected error for oversized FixedString")
	}

	r := roundTripReader(t, w)
	s, err := r.ReadFixedString(5)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(s) != 5 || s[:2] != "ab" {
		t.Fatalf("got %q", s)
	}
}

func TestNotEnoughDataMidValue(t *testing.T) {
	w := NewWriter()
	w.WriteU32(42)
	truncated := w.Bytes()[:2]

	r := NewReader(bytes.NewReader(truncated))
	if _, err := r.ReadU32(); err != ErrNotEnoughData {
		t.Fatalf("got %v, want ErrNotEnoughData", err)
	}
}
