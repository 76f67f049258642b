package ecaludp

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
)

// sendPool recycles staging buffers for vectored sends. One datagram never
// exceeds the maximum UDP payload.
var sendPool = sync.Pool{
	New: func() any {
		buf := make([]byte, maxUDPDatagramSize)
		return &buf
	},
}

// UDPTransport adapts a net.UDPConn to the Transport interface.
type UDPTransport struct {
	conn *net.UDPConn
}

// NewUDPTransport wraps an already bound or connected UDP socket.
func NewUDPTransport(conn *net.UDPConn) *UDPTransport {
	return &UDPTransport{conn: conn}
}

// ListenUDP binds a new UDP socket on addr and wraps it.
func ListenUDP(addr netip.AddrPort) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", net.UDPAddrFromAddrPort(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneric, err)
	}
	return &UDPTransport{conn: conn}, nil
}

// SendTo flattens bufs into one staging buffer and transmits it as a single
// datagram. The kernel offers no vectored UDP send through net.UDPConn, so
// the gather happens here.
func (t *UDPTransport) SendTo(dest netip.AddrPort, bufs [][]byte) (int, error) {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}

	staging := sendPool.Get().(*[]byte)
	defer sendPool.Put(staging)
	if cap(*staging) < total {
		grown := make([]byte, total)
		staging = &grown
	}

	flat := (*staging)[:total]
	pos := 0
	for _, b := range bufs {
		pos += copy(flat[pos:], b)
	}

	n, err := t.conn.WriteToUDPAddrPort(flat, dest)
	if err != nil {
		return n, classifyNetError(err)
	}
	return n, nil
}

// ReceiveFrom blocks for one datagram.
func (t *UDPTransport) ReceiveFrom(b []byte) (int, netip.AddrPort, error) {
	n, sender, err := t.conn.ReadFromUDPAddrPort(b)
	if err != nil {
		return n, sender, classifyNetError(err)
	}
	return n, sender, nil
}

// LocalAddr returns the bound address.
func (t *UDPTransport) LocalAddr() netip.AddrPort {
	if addr, ok := t.conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.AddrPort()
	}
	return netip.AddrPort{}
}

// Close unblocks pending receives and releases the socket.
func (t *UDPTransport) Close() error {
	if err := t.conn.Close(); err != nil {
		return classifyNetError(err)
	}
	return nil
}

func classifyNetError(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %v", ErrSocketClosed, err)
	}
	return fmt.Errorf("%w: %v", ErrGeneric, err)
}
