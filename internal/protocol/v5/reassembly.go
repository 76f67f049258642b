package v5

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/eclipse-ecal/ecaludp/buffer"
	"github.com/eclipse-ecal/ecaludp/internal/protocol"
)

type packageKey struct {
	sender netip.AddrPort
	id     int32
}

type packageState struct {
	infoReceived   bool
	totalFragments uint32
	totalLength    uint32
	receivedCount  uint32
	fragments      []*buffer.OwningBuffer
	lastActivity   time.Time
}

func (p *packageState) release() {
	for i, f := range p.fragments {
		if f != nil {
			f.Release()
			p.fragments[i] = nil
		}
	}
}

// Reassembly collects fragments per (sender, message id) and yields the
// reassembled message once the last unique datagram arrives, in any arrival
// order. It is not safe for concurrent use; the owning socket serializes
// access. No operation blocks.
type Reassembly struct {
	packages map[packageKey]*packageState
	pool     *buffer.Pool
	clock    func() time.Time
}

// NewReassembly returns an engine drawing reassembled-message buffers from
// pool.
func NewReassembly(pool *buffer.Pool) *Reassembly {
	return &Reassembly{
		packages: make(map[packageKey]*packageState),
		pool:     pool,
		clock:    time.Now,
	}
}

// HandleDatagram processes one received v5 datagram held by handle. When the
// datagram completes a message, the returned view covers the whole message;
// otherwise the view is nil. The engine clones the handle for any payload
// region it retains, so the caller may release its own share on return.
func (r *Reassembly) HandleDatagram(handle *buffer.Handle, sender netip.AddrPort) (*buffer.OwningBuffer, error) {
	data := handle.Memory().Data()
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: datagram of %d bytes cannot contain the v5 header", protocol.ErrMalformedDatagram, len(data))
	}

	header := DecodeHeader(data)
	switch header.Type {
	case DatagramTypeFragmentInfo:
		return r.handleFragmentInfo(header, sender)
	case DatagramTypeFragment:
		return r.handleFragment(header, handle, sender)
	case DatagramTypeNonFragmentedMessage:
		return r.handleNonFragmentedMessage(header, handle)
	default:
		return nil, fmt.Errorf("%w: invalid datagram type %d", protocol.ErrMalformedDatagram, header.Type)
	}
}

func (r *Reassembly) handleFragmentInfo(header Header, sender netip.AddrPort) (*buffer.OwningBuffer, error) {
	key := packageKey{sender: sender, id: header.ID}

	state, ok := r.packages[key]
	if !ok {
		state = &packageState{}
		r.packages[key] = state
	} else if state.infoReceived {
		return nil, fmt.Errorf("%w: fragment info for message %d received twice", protocol.ErrDuplicateDatagram, header.ID)
	}

	state.infoReceived = true
	state.totalFragments = header.Num
	state.totalLength = header.Len

	// The fragment count is authoritative now. Fragments that arrived
	// early with an index beyond it are dropped with their shares.
	for i := int(state.totalFragments); i < len(state.fragments); i++ {
		if state.fragments[i] != nil {
			state.fragments[i].Release()
			state.fragments[i] = nil
			state.receivedCount--
		}
	}
	state.fragments = resizeFragments(state.fragments, int(state.totalFragments))

	state.lastActivity = r.clock()

	return r.completeIfDone(key, state)
}

func (r *Reassembly) handleFragment(header Header, handle *buffer.Handle, sender netip.AddrPort) (*buffer.OwningBuffer, error) {
	key := packageKey{sender: sender, id: header.ID}

	state, ok := r.packages[key]
	if !ok {
		state = &packageState{}
		r.packages[key] = state
	}

	index := header.Num

	// Without the fragment info the total count is unknown, so the slot
	// list grows on demand.
	if !state.infoReceived && int(index) >= len(state.fragments) {
		state.fragments = resizeFragments(state.fragments, int(index)+1)
	}

	if int(index) >= len(state.fragments) {
		return nil, fmt.Errorf("%w: fragment index %d out of range, expected fewer than %d",
			protocol.ErrMalformedDatagram, index, len(state.fragments))
	}

	if state.fragments[index] != nil {
		return nil, fmt.Errorf("%w: fragment %d of message %d", protocol.ErrDuplicateDatagram, index, header.ID)
	}

	data := handle.Memory().Data()
	available := len(data) - HeaderSize
	if int(header.Len) > available {
		return nil, fmt.Errorf("%w: fragment declares %d payload bytes but only %d are available",
			protocol.ErrMalformedDatagram, header.Len, available)
	}

	state.fragments[index] = buffer.NewOwningBuffer(data[HeaderSize:HeaderSize+int(header.Len)], handle)
	state.receivedCount++
	state.lastActivity = r.clock()

	return r.completeIfDone(key, state)
}

func (r *Reassembly) handleNonFragmentedMessage(header Header, handle *buffer.Handle) (*buffer.OwningBuffer, error) {
	data := handle.Memory().Data()
	available := len(data) - HeaderSize
	if int(header.Len) > available {
		return nil, fmt.Errorf("%w: datagram declares %d payload bytes but only %d are available",
			protocol.ErrMalformedDatagram, header.Len, available)
	}
	return buffer.NewOwningBuffer(data[HeaderSize:HeaderSize+int(header.Len)], handle), nil
}

func (r *Reassembly) completeIfDone(key packageKey, state *packageState) (*buffer.OwningBuffer, error) {
	if !state.infoReceived || state.receivedCount < state.totalFragments {
		return nil, nil
	}

	sum := 0
	for _, f := range state.fragments {
		sum += f.Size()
	}
	if sum != int(state.totalLength) {
		state.release()
		delete(r.packages, key)
		return nil, fmt.Errorf("%w: expected %d bytes, received %d",
			protocol.ErrMalformedReassembledMessage, state.totalLength, sum)
	}

	message := r.reassemble(state)

	state.release()
	delete(r.packages, key)
	return message, nil
}

func (r *Reassembly) reassemble(state *packageState) *buffer.OwningBuffer {
	target := r.pool.Allocate()
	mem := target.Memory()
	mem.Resize(int(state.totalLength))

	out := mem.Data()
	pos := 0
	for _, f := range state.fragments {
		pos += copy(out[pos:], f.Bytes())
	}

	message := buffer.NewOwningBuffer(out, target)
	target.Release()
	return message
}

// RemoveOlderThan deletes every reassembly record whose last activity lies
// before threshold, releasing the fragment shares it held. It returns the
// number of records removed.
func (r *Reassembly) RemoveOlderThan(threshold time.Time) int {
	removed := 0
	for key, state := range r.packages {
		if state.lastActivity.Before(threshold) {
			state.release()
			delete(r.packages, key)
			removed++
		}
	}
	return removed
}

func resizeFragments(fragments []*buffer.OwningBuffer, n int) []*buffer.OwningBuffer {
	if n <= len(fragments) {
		return fragments[:n]
	}
	grown := make([]*buffer.OwningBuffer, n)
	copy(grown, fragments)
	return grown
}
