// Package ecaludp transports messages of arbitrary size over UDP by
// fragmenting them into header-framed datagrams and reassembling them on
// the receiving side.
//
// Ownership boundary:
// - the framed socket facade (send fragmentation, receive reassembly)
// - the transport abstraction and its UDP and capture implementations
// - the public error taxonomy
//
// A message is either delivered completely or silently dropped once its
// reassembly state exceeds the configured age. No reliability, ordering
// between messages, retransmission or flow control is provided.
package ecaludp
