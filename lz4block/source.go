package lz4block

import (
	"errors"
	"io"
)

// Source decompresses a stream framed as consecutive LZ4 blocks (see
// package doc) and presents the decompressed bytes as an io.Reader. It is
// what Cursor reads through when compression is negotiated.
type Source struct {
	under io.Reader
	raw   []byte // framed bytes read but not yet fully decoded
	plain []byte // decoded bytes not yet returned to the caller
	err   error
}

// NewSource wraps under, which must yield the raw (still-framed) response
// body bytes.
func NewSource(under io.Reader) *Source {
	return &Source{under: under}
}

func (s *Source) fill() error {
	buf := make([]byte, 64*1024)
	n, err := s.under.Read(buf)
	if n > 0 {
		s.raw = append(s.raw, buf[:n]...)
	}
	if err != nil {
		return err
	}
	return nil
}

// Read implements io.Reader, decompressing blocks as needed.
func (s *Source) Read(p []byte) (int, error) {
	for len(s.plain) == 0 {
		if len(s.raw) >= metaSize {
			decoded, consumed, err := DecodeBlock(s.raw)
			if err == nil {
				s.raw = s.raw[consumed:]
				s.plain = decoded
				continue
			}
			if !errors.Is(err, ErrNotEnoughData) {
				s.err = err
				return 0, err
			}
		}

		if s.err != nil {
			return 0, s.err
		}

		readErr := s.fill()
		if readErr != nil {
			if readErr == io.EOF {
				if len(s.raw) == 0 {
					s.err = io.EOF
					return 0, io.EOF
				}
				// Trailing bytes that don't form a complete block: treat
				// as a malformed frame rather than silently truncating.
				s.err = io.ErrUnexpectedEOF
				continue
			}
			s.err = readErr
			return 0, readErr
		}
	}

	n := copy(p, s.plain)
	s.plain = s.plain[n:]
	return n, nil
}
