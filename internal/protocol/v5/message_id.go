package v5

import (
	"sync"
	"time"
)

// MessageIDSource produces message ids for fragmented sends. Ids need not be
// globally unique; a collision with a still-live reassembly state at the
// same sender is caught by the receiver's duplicate check.
type MessageIDSource struct {
	mu      sync.Mutex
	x, y, z uint32
}

// NewMessageIDSource seeds a source from the high-resolution clock.
func NewMessageIDSource() *MessageIDSource {
	return &MessageIDSource{
		x: uint32(time.Now().UnixNano()),
		y: 362436069,
		z: 521288629,
	}
}

// Next advances the generator and returns the next message id.
func (s *MessageIDSource) Next() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Marsaglia xorshf96
	s.x ^= s.x << 16
	s.x ^= s.x >> 5
	s.x ^= s.x << 1

	t := s.x
	s.x = s.y
	s.y = s.z
	s.z = t ^ s.x ^ s.y

	return int32(s.z)
}
