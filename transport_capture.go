package ecaludp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"golang.org/x/net/ipv4"
)

const udpHeaderSize = 8

// CaptureTransport receives UDP datagrams from a raw IPv4 socket and parses
// the transport header in userspace. It is receive-only; SendTo reports
// ErrNotBound. A raw socket sees every UDP packet reaching the host, so the
// transport filters on the port it was created for.
type CaptureTransport struct {
	raw  *ipv4.RawConn
	pc   net.PacketConn
	port uint16
}

// OpenCapture binds a raw IPv4/UDP socket on host and delivers only packets
// addressed to port. Requires elevated privileges on most platforms.
func OpenCapture(host string, port uint16) (*CaptureTransport, error) {
	pc, err := net.ListenPacket("ip4:udp", host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBound, err)
	}
	raw, err := ipv4.NewRawConn(pc)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("%w: %v", ErrNotBound, err)
	}
	return &CaptureTransport{raw: raw, pc: pc, port: port}, nil
}

// SendTo is unsupported; the capture socket only observes traffic.
func (t *CaptureTransport) SendTo(netip.AddrPort, [][]byte) (int, error) {
	return 0, fmt.Errorf("%w: capture transport is receive-only", ErrNotBound)
}

// ReceiveFrom blocks until a UDP packet for the watched port arrives, then
// copies its body into b and returns the sender.
func (t *CaptureTransport) ReceiveFrom(b []byte) (int, netip.AddrPort, error) {
	if t.raw == nil {
		return 0, netip.AddrPort{}, fmt.Errorf("%w: capture socket not open", ErrNotBound)
	}

	packet := make([]byte, maxUDPDatagramSize)
	for {
		ipHeader, payload, _, err := t.raw.ReadFrom(packet)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				// Mirror the blocking-close contract: a shutdown surfaces
				// as a zero-byte result with the zero sender.
				return 0, netip.AddrPort{}, nil
			}
			return 0, netip.AddrPort{}, fmt.Errorf("%w: %v", ErrGeneric, err)
		}
		if len(payload) < udpHeaderSize {
			continue
		}

		srcPort := binary.BigEndian.Uint16(payload[0:2])
		dstPort := binary.BigEndian.Uint16(payload[2:4])
		udpLen := int(binary.BigEndian.Uint16(payload[4:6]))
		if dstPort != t.port {
			continue
		}
		if udpLen < udpHeaderSize || udpLen > len(payload) {
			continue
		}

		body := payload[udpHeaderSize:udpLen]
		n := copy(b, body)

		src, ok := netip.AddrFromSlice(ipHeader.Src.To4())
		if !ok {
			continue
		}
		return n, netip.AddrPortFrom(src, srcPort), nil
	}
}

// Close releases the raw socket and unblocks pending receives.
func (t *CaptureTransport) Close() error {
	if t.pc == nil {
		return fmt.Errorf("%w: capture socket not open", ErrNotBound)
	}
	if err := t.pc.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneric, err)
	}
	return nil
}
