package buffer

import (
	"bytes"
	"testing"
)

type countingOwner struct {
	refs int
}

func (o *countingOwner) Retain()  { o.refs++ }
func (o *countingOwner) Release() { o.refs-- }

func TestOwningBufferTakesAndDropsShare(t *testing.T) {
	owner := &countingOwner{}
	v := NewOwningBuffer([]byte("abc"), owner)
	if owner.refs != 1 {
		t.Fatalf("refs after construction: got %d want 1", owner.refs)
	}
	v.Release()
	if owner.refs != 0 {
		t.Fatalf("refs after release: got %d want 0", owner.refs)
	}
}

func TestOwningBufferCloneHoldsOwnShare(t *testing.T) {
	owner := &countingOwner{}
	v := NewOwningBuffer([]byte("abcdef"), owner)
	c := v.Clone()
	if owner.refs != 2 {
		t.Fatalf("refs after clone: got %d want 2", owner.refs)
	}
	if !bytes.Equal(c.Bytes(), v.Bytes()) {
		t.Fatalf("clone views different bytes")
	}

	v.Release()
	if owner.refs != 1 {
		t.Fatalf("refs after first release: got %d want 1", owner.refs)
	}
	c.Release()
	if owner.refs != 0 {
		t.Fatalf("refs after last release: got %d want 0", owner.refs)
	}
}

func TestOwningBufferNilOwner(t *testing.T) {
	v := NewOwningBuffer([]byte("zz"), nil)
	if v.Size() != 2 {
		t.Fatalf("size: got %d want 2", v.Size())
	}
	v.Release()
}
