package ecaludp

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eclipse-ecal/ecaludp/buffer"
	"github.com/eclipse-ecal/ecaludp/internal/observability"
	"github.com/eclipse-ecal/ecaludp/internal/protocol"
	"github.com/eclipse-ecal/ecaludp/internal/protocol/v5"
)

// maxUDPDatagramSize bounds a single UDP payload.
const maxUDPDatagramSize = 65535

const (
	// DefaultMaxDatagramSize keeps datagrams below the common 1500-byte
	// ethernet MTU after IP and UDP headers.
	DefaultMaxDatagramSize = 1448

	// DefaultMaxReassemblyAge is how long an incomplete message waits for
	// its remaining fragments.
	DefaultMaxReassemblyAge = 5 * time.Second
)

// Socket sends and receives framed messages over a datagram transport.
// Messages larger than the configured datagram size are fragmented on send
// and reassembled on receive.
//
// A Socket is safe for one concurrent sender and one concurrent receiver;
// concurrent callers of the same direction are serialized internally.
type Socket struct {
	transport  Transport
	pool       *buffer.Pool
	reassembly *v5.Reassembly
	magic      [4]byte
	ids        *v5.MessageIDSource
	logger     zerolog.Logger

	settingsMu       sync.Mutex
	maxDatagramSize  int
	maxReassemblyAge time.Duration

	sendMu sync.Mutex
	recvMu sync.Mutex
}

// New wraps transport in a framed socket speaking the protocol family
// identified by the 4 magic bytes. Sender and receiver must agree on the
// magic.
func New(transport Transport, magic [4]byte) *Socket {
	pool := buffer.NewPool()
	return &Socket{
		transport:        transport,
		pool:             pool,
		reassembly:       v5.NewReassembly(pool),
		magic:            magic,
		ids:              v5.NewMessageIDSource(),
		logger:           zerolog.Nop(),
		maxDatagramSize:  DefaultMaxDatagramSize,
		maxReassemblyAge: DefaultMaxReassemblyAge,
	}
}

// SetLogger attaches a logger for dropped-datagram observability.
func (s *Socket) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// SetMaxDatagramSize bounds the wire size (header included) of datagrams
// emitted by SendTo.
func (s *Socket) SetMaxDatagramSize(n int) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	s.maxDatagramSize = n
}

// MaxDatagramSize returns the configured send-side datagram bound.
func (s *Socket) MaxDatagramSize() int {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.maxDatagramSize
}

// SetMaxReassemblyAge bounds how long an incomplete message is kept before
// eviction.
func (s *Socket) SetMaxReassemblyAge(age time.Duration) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	s.maxReassemblyAge = age
}

// MaxReassemblyAge returns the configured receive-side eviction age.
func (s *Socket) MaxReassemblyAge() time.Duration {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.maxReassemblyAge
}

// SendTo fragments the message spread over buffers and transmits the
// resulting datagrams in order. The first transport error short-circuits
// the remaining datagrams; the socket stays usable. It returns the number
// of payload and header bytes handed to the transport.
func (s *Socket) SendTo(buffers [][]byte, dest netip.AddrPort) (int, error) {
	list, err := v5.CreateDatagramList(buffers, s.MaxDatagramSize(), s.magic, s.ids)
	if err != nil {
		return 0, err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	sent := 0
	for i := range list {
		n, err := s.transport.SendTo(dest, list[i].Buffers())
		sent += n
		if err != nil {
			return sent, err
		}
		observability.RecordDatagramsSent(1)
	}
	return sent, nil
}

// AsyncSendTo transmits like SendTo on a background goroutine, invoking
// completion once the last datagram is out or the first error occurs. Each
// datagram is transmitted only after the previous one completed.
func (s *Socket) AsyncSendTo(buffers [][]byte, dest netip.AddrPort, completion func(error)) {
	go func() {
		_, err := s.SendTo(buffers, dest)
		completion(err)
	}()
}

// ReceiveFrom blocks until a complete message is available and returns it
// together with the sender. Malformed, duplicate and unsupported-version
// datagrams are logged, counted and dropped without ending the call. The
// returned view must be released by the caller to recycle its buffer.
func (s *Socket) ReceiveFrom() (*buffer.OwningBuffer, netip.AddrPort, error) {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()

	for {
		handle := s.pool.Allocate()
		mem := handle.Memory()
		mem.Resize(maxUDPDatagramSize)

		n, sender, err := s.transport.ReceiveFrom(mem.Data())
		if err != nil {
			handle.Release()
			return nil, netip.AddrPort{}, err
		}

		// Transports whose blocking receive can only be unblocked by a
		// shutdown deliver a zero-byte datagram with the zero sender.
		if n == 0 && sender == (netip.AddrPort{}) {
			handle.Release()
			return nil, netip.AddrPort{}, fmt.Errorf("%w: receive cancelled", ErrSocketClosed)
		}

		mem.Resize(n)

		evicted := s.reassembly.RemoveOlderThan(time.Now().Add(-s.MaxReassemblyAge()))
		observability.RecordEvictions(evicted)

		message, err := s.processDatagram(handle, sender)
		handle.Release()

		if err != nil {
			observability.RecordDatagramReceived(resultLabel(err))
			s.logger.Debug().
				Err(err).
				Stringer("sender", sender).
				Msg("dropping datagram")
			continue
		}
		observability.RecordDatagramReceived(observability.ResultOK)

		if message != nil {
			observability.RecordMessageReassembled()
			return message, sender, nil
		}
	}
}

// AsyncReceiveFrom runs one ReceiveFrom on a background goroutine and hands
// the result to the callback.
func (s *Socket) AsyncReceiveFrom(callback func(*buffer.OwningBuffer, netip.AddrPort, error)) {
	go func() {
		callback(s.ReceiveFrom())
	}()
}

// processDatagram validates the common prefix, dispatches on the protocol
// version and runs the v5 reassembly. A nil message with nil error means
// the datagram was consumed without completing a message.
func (s *Socket) processDatagram(handle *buffer.Handle, sender netip.AddrPort) (*buffer.OwningBuffer, error) {
	version, err := protocol.ParseCommonHeader(handle.Memory().Data(), s.magic)
	if err != nil {
		return nil, err
	}

	switch version {
	case v5.ProtocolVersion:
		return s.reassembly.HandleDatagram(handle, sender)
	default:
		// Version 6 exists on the wire but is not decoded here. Rejecting
		// it with a distinguishable error keeps future coexistence
		// testable.
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedProtocolVersion, version)
	}
}

// Close shuts the transport down. A blocked ReceiveFrom returns with
// ErrSocketClosed.
func (s *Socket) Close() error {
	return s.transport.Close()
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateDatagram):
		return observability.ResultDuplicate
	case errors.Is(err, ErrUnsupportedProtocolVersion):
		return observability.ResultUnsupportedVersion
	default:
		return observability.ResultMalformed
	}
}
