package ch

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := newError(Network, sentinel)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to see through wrapped error")
	}
}

func TestBadResponseFormatsStatusAndText(t *testing.T) {
	err := badResponse(500, "internal error")
	msg := err.Error()
	if msg == "" {
		t.Fatalf("expected non-empty message")
	}
	if err.Kind != BadResponse || err.Status != 500 || err.Text != "internal error" {
		t.Fatalf("unexpected fields: %+v", err)
	}
}
