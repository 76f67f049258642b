package protocol

import "errors"

var (
	ErrGeneric                     = errors.New("ecaludp: generic error")
	ErrUnsupportedProtocolVersion  = errors.New("ecaludp: unsupported protocol version")
	ErrDuplicateDatagram           = errors.New("ecaludp: duplicate datagram")
	ErrMalformedDatagram           = errors.New("ecaludp: malformed datagram")
	ErrMalformedReassembledMessage = errors.New("ecaludp: malformed reassembled message")
	ErrNotBound                    = errors.New("ecaludp: socket not bound")
	ErrSocketClosed                = errors.New("ecaludp: socket closed")
)
