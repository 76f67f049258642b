package ecaludp

import "github.com/eclipse-ecal/ecaludp/internal/protocol"

// The error taxonomy surfaced by sockets and transports. Errors carry
// context via wrapping; classify with errors.Is.
var (
	ErrGeneric                     = protocol.ErrGeneric
	ErrUnsupportedProtocolVersion  = protocol.ErrUnsupportedProtocolVersion
	ErrDuplicateDatagram           = protocol.ErrDuplicateDatagram
	ErrMalformedDatagram           = protocol.ErrMalformedDatagram
	ErrMalformedReassembledMessage = protocol.ErrMalformedReassembledMessage
	ErrNotBound                    = protocol.ErrNotBound
	ErrSocketClosed                = protocol.ErrSocketClosed
)
