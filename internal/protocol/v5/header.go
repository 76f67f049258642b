// Package v5 owns the version 5 framing codec, the send-path datagram
// builder and the receive-path reassembly engine.
package v5

import "encoding/binary"

// ProtocolVersion is the version byte carried by every v5 datagram.
const ProtocolVersion byte = 5

// HeaderSize is the fixed wire header length in bytes.
const HeaderSize = 24

// Datagram types carried in the header's type field.
const (
	DatagramTypeUnknown              uint32 = 0
	DatagramTypeFragmentInfo         uint32 = 1
	DatagramTypeFragment             uint32 = 2
	DatagramTypeNonFragmentedMessage uint32 = 3
)

// Header is the fixed v5 wire header. All multi-byte fields are
// little-endian on the wire.
//
// Field use depends on the datagram type:
//   - fragment info: Num is the total fragment count, Len the length of the
//     original message before fragmentation. No payload follows.
//   - fragment: Num is the 0-based fragment index, Len the fragment's
//     payload length.
//   - non-fragmented message: ID is sent as -1 and Num as 1, neither is
//     evaluated on receive. Len is the payload length.
type Header struct {
	Magic    [4]byte
	Version  byte
	Reserved [3]byte // sent as 0, never validated on receive
	Type     uint32
	ID       int32
	Num      uint32
	Len      uint32
}

// EncodeHeader serializes h into a 24-byte wire header.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.Version
	copy(buf[5:8], h.Reserved[:])
	binary.LittleEndian.PutUint32(buf[8:12], h.Type)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.ID))
	binary.LittleEndian.PutUint32(buf[16:20], h.Num)
	binary.LittleEndian.PutUint32(buf[20:24], h.Len)
	return buf
}

// DecodeHeader deserializes a wire header. It performs no semantic
// validation; b must hold at least HeaderSize bytes.
func DecodeHeader(b []byte) Header {
	var h Header
	copy(h.Magic[:], b[0:4])
	h.Version = b[4]
	copy(h.Reserved[:], b[5:8])
	h.Type = binary.LittleEndian.Uint32(b[8:12])
	h.ID = int32(binary.LittleEndian.Uint32(b[12:16]))
	h.Num = binary.LittleEndian.Uint32(b[16:20])
	h.Len = binary.LittleEndian.Uint32(b[20:24])
	return h
}
