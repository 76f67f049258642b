package protocol

import (
	"errors"
	"testing"
)

var testMagic = [4]byte{'E', 'C', 'A', 'L'}

func TestParseCommonHeaderReturnsVersion(t *testing.T) {
	version, err := ParseCommonHeader([]byte{'E', 'C', 'A', 'L', 5, 0xff, 0xff}, testMagic)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if version != 5 {
		t.Fatalf("version: got %d want 5", version)
	}
}

func TestParseCommonHeaderTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		_, err := ParseCommonHeader(make([]byte, n), testMagic)
		if !errors.Is(err, ErrMalformedDatagram) {
			t.Fatalf("len %d: expected ErrMalformedDatagram, got %v", n, err)
		}
	}
}

func TestParseCommonHeaderWrongMagic(t *testing.T) {
	_, err := ParseCommonHeader([]byte{'X', 'C', 'A', 'L', 5}, testMagic)
	if !errors.Is(err, ErrMalformedDatagram) {
		t.Fatalf("expected ErrMalformedDatagram, got %v", err)
	}
}

func TestParseCommonHeaderIgnoresTrailingBytes(t *testing.T) {
	version, err := ParseCommonHeader([]byte{'E', 'C', 'A', 'L', 6, 0xde, 0xad, 0xbe}, testMagic)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if version != 6 {
		t.Fatalf("version: got %d want 6", version)
	}
}
