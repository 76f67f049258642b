package v5

import (
	"fmt"

	"github.com/eclipse-ecal/ecaludp/internal/protocol"
)

// Datagram describes one wire datagram as a scatter/gather view list: the
// encoded header first, followed by views referencing the caller's payload
// buffers. The views stay valid only as long as the caller's buffers do.
type Datagram struct {
	header []byte
	views  [][]byte
}

func newDatagram(h Header) Datagram {
	hdr := EncodeHeader(h)
	return Datagram{header: hdr, views: [][]byte{hdr}}
}

// Buffers returns the view list for vectored transmission.
func (d *Datagram) Buffers() [][]byte { return d.views }

// Size returns the total wire size of the datagram.
func (d *Datagram) Size() int {
	n := 0
	for _, v := range d.views {
		n += len(v)
	}
	return n
}

// Header decodes and returns the datagram's header.
func (d *Datagram) Header() Header { return DecodeHeader(d.header) }

// CreateDatagramList splits the payload spread over views into wire
// datagrams. A payload that fits into one datagram of maxDatagramSize
// (header included) yields a single non-fragmented datagram; anything larger
// yields a fragment-info datagram followed by the fragments in index order.
// Zero-length views never contribute a datagram or an empty fragment.
func CreateDatagramList(views [][]byte, maxDatagramSize int, magic [4]byte, ids *MessageIDSource) ([]Datagram, error) {
	if maxDatagramSize <= HeaderSize {
		return nil, fmt.Errorf("%w: max datagram size %d leaves no room for the %d-byte header",
			protocol.ErrGeneric, maxDatagramSize, HeaderSize)
	}

	payload := make([][]byte, 0, len(views))
	total := 0
	for _, v := range views {
		if len(v) == 0 {
			continue
		}
		payload = append(payload, v)
		total += len(v)
	}

	if total+HeaderSize <= maxDatagramSize {
		return []Datagram{createNonFragmentedDatagram(payload, total, magic)}, nil
	}
	return createFragmentedDatagramList(payload, total, maxDatagramSize, magic, ids.Next()), nil
}

func createNonFragmentedDatagram(payload [][]byte, total int, magic [4]byte) Datagram {
	d := newDatagram(Header{
		Magic:   magic,
		Version: ProtocolVersion,
		Type:    DatagramTypeNonFragmentedMessage,
		ID:      -1,
		Num:     1,
		Len:     uint32(total),
	})
	d.views = append(d.views, payload...)
	return d
}

func createFragmentedDatagramList(payload [][]byte, total, maxDatagramSize int, magic [4]byte, id int32) []Datagram {
	perDatagram := maxDatagramSize - HeaderSize
	fragmentCount := (total + perDatagram - 1) / perDatagram

	list := make([]Datagram, 0, 1+fragmentCount)

	// The fragmentation info travels in its own datagram and carries the
	// length of the whole message, not of any single fragment.
	list = append(list, newDatagram(Header{
		Magic:   magic,
		Version: ProtocolVersion,
		Type:    DatagramTypeFragmentInfo,
		ID:      id,
		Num:     uint32(fragmentCount),
		Len:     uint32(total),
	}))

	viewIndex := 0
	viewOffset := 0
	remaining := total
	for fragment := 0; fragment < fragmentCount; fragment++ {
		body := perDatagram
		if body > remaining {
			body = remaining
		}

		d := newDatagram(Header{
			Magic:   magic,
			Version: ProtocolVersion,
			Type:    DatagramTypeFragment,
			ID:      id,
			Num:     uint32(fragment),
			Len:     uint32(body),
		})

		// Fill the fragment body by walking the payload views in order. A
		// view may span several fragments and a fragment may aggregate
		// bytes from several views.
		for filled := 0; filled < body; {
			view := payload[viewIndex]
			take := body - filled
			if avail := len(view) - viewOffset; take > avail {
				take = avail
			}
			d.views = append(d.views, view[viewOffset:viewOffset+take])
			viewOffset += take
			filled += take
			if viewOffset == len(view) {
				viewIndex++
				viewOffset = 0
			}
		}

		remaining -= body
		list = append(list, d)
	}
	return list
}
