package ecaludp

import "net/netip"

// Transport is the datagram capability set a Socket consumes. A transport
// moves single datagrams; framing and reassembly stay above it.
//
// ReceiveFrom reporting zero bytes together with the zero AddrPort is the
// shutdown signal of transports whose blocking receive cannot be cancelled
// by a plain close; the socket's receive loop translates it into
// ErrSocketClosed instead of spinning.
type Transport interface {
	// SendTo transmits the concatenation of bufs as one datagram.
	SendTo(dest netip.AddrPort, bufs [][]byte) (int, error)

	// ReceiveFrom blocks for one datagram, copies it into b and returns the
	// received length and the sender.
	ReceiveFrom(b []byte) (int, netip.AddrPort, error)

	Close() error
}
