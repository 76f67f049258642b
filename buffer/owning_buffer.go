package buffer

// Owner keeps a view's backing storage alive. Retain and Release adjust the
// share count; the final Release recycles the storage.
type Owner interface {
	Retain()
	Release()
}

// OwningBuffer is an immutable view into storage kept alive by its owner.
// Multiple views may share one owner. Views never alias-check.
type OwningBuffer struct {
	data  []byte
	owner Owner
}

// NewOwningBuffer wraps data in a view and takes one share of owner.
// The caller's share is not consumed; owner may be nil for storage whose
// lifetime is managed elsewhere.
func NewOwningBuffer(data []byte, owner Owner) *OwningBuffer {
	if owner != nil {
		owner.Retain()
	}
	return &OwningBuffer{data: data, owner: owner}
}

// Bytes returns the viewed bytes. The slice must not be mutated and is only
// valid until Release.
func (b *OwningBuffer) Bytes() []byte { return b.data }

// Size returns the view length in bytes.
func (b *OwningBuffer) Size() int { return len(b.data) }

// Clone returns a new view of the same bytes holding its own share of the
// owner.
func (b *OwningBuffer) Clone() *OwningBuffer {
	return NewOwningBuffer(b.data, b.owner)
}

// Release drops this view's share of the owner. The view must not be used
// afterwards.
func (b *OwningBuffer) Release() {
	if b.owner != nil {
		b.owner.Release()
		b.owner = nil
	}
	b.data = nil
}
