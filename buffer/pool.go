package buffer

import (
	"sync"
	"sync/atomic"
)

// Pool is a recycling allocator of RawMemory. Allocate hands out a Handle
// with one share; the final Release on a handle returns the memory to the
// pool. The pool may grow without bound and guarantees at most one
// concurrent user per buffer.
type Pool struct {
	mu   sync.Mutex
	free []*RawMemory
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Allocate returns a handle to a recycled buffer, or to a fresh one when the
// pool is empty. The buffer's previous contents are unspecified.
func (p *Pool) Allocate() *Handle {
	p.mu.Lock()
	var mem *RawMemory
	if n := len(p.free); n > 0 {
		mem = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	}
	p.mu.Unlock()

	if mem == nil {
		mem = &RawMemory{}
	}
	h := &Handle{pool: p, mem: mem}
	h.refs.Store(1)
	return h
}

func (p *Pool) put(mem *RawMemory) {
	p.mu.Lock()
	p.free = append(p.free, mem)
	p.mu.Unlock()
}

// Handle is a shared reference to one pooled buffer. It implements Owner so
// views handed to callers keep the buffer out of the pool until every share
// is released.
type Handle struct {
	pool *Pool
	mem  *RawMemory
	refs atomic.Int32
}

// Memory returns the underlying storage. Only valid while at least one share
// is held.
func (h *Handle) Memory() *RawMemory { return h.mem }

// Retain takes an additional share.
func (h *Handle) Retain() {
	h.refs.Add(1)
}

// Release drops one share. The last release returns the buffer to the pool.
func (h *Handle) Release() {
	if h.refs.Add(-1) == 0 {
		h.pool.put(h.mem)
		h.mem = nil
	}
}
