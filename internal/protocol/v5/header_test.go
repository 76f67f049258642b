package v5

import (
	"bytes"
	"encoding/binary"
	"testing"
)

var testMagic = [4]byte{'E', 'C', 'A', 'L'}

func TestEncodeHeaderWireLayout(t *testing.T) {
	h := Header{
		Magic:   testMagic,
		Version: ProtocolVersion,
		Type:    DatagramTypeFragment,
		ID:      -1,
		Num:     0x01020304,
		Len:     0xA0B0C0D0,
	}
	b := EncodeHeader(h)

	if len(b) != HeaderSize {
		t.Fatalf("encoded length: got %d want %d", len(b), HeaderSize)
	}
	if !bytes.Equal(b[0:4], []byte("ECAL")) {
		t.Fatalf("magic bytes: %q", b[0:4])
	}
	if b[4] != 5 {
		t.Fatalf("version byte: got %d want 5", b[4])
	}
	if b[5] != 0 || b[6] != 0 || b[7] != 0 {
		t.Fatalf("reserved bytes not zero: % x", b[5:8])
	}
	if got := binary.LittleEndian.Uint32(b[8:12]); got != DatagramTypeFragment {
		t.Fatalf("type field: got %d", got)
	}
	if got := int32(binary.LittleEndian.Uint32(b[12:16])); got != -1 {
		t.Fatalf("id field: got %d want -1", got)
	}
	if got := binary.LittleEndian.Uint32(b[16:20]); got != 0x01020304 {
		t.Fatalf("num field: got %#x", got)
	}
	if got := binary.LittleEndian.Uint32(b[20:24]); got != 0xA0B0C0D0 {
		t.Fatalf("len field: got %#x", got)
	}
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	in := Header{
		Magic:   testMagic,
		Version: ProtocolVersion,
		Type:    DatagramTypeFragmentInfo,
		ID:      0x7FFFFFFF,
		Num:     42,
		Len:     122,
	}
	out := DecodeHeader(EncodeHeader(in))
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestDecodeHeaderKeepsReservedBytes(t *testing.T) {
	b := EncodeHeader(Header{Magic: testMagic, Version: ProtocolVersion, Type: DatagramTypeNonFragmentedMessage, ID: -1, Num: 1})
	b[5], b[6], b[7] = 0xde, 0xad, 0xbe

	// Receivers must not reject nonzero reserved bytes; the codec just
	// carries them through.
	h := DecodeHeader(b)
	if h.Reserved != [3]byte{0xde, 0xad, 0xbe} {
		t.Fatalf("reserved: % x", h.Reserved)
	}
	if h.Type != DatagramTypeNonFragmentedMessage {
		t.Fatalf("type: got %d", h.Type)
	}
}
