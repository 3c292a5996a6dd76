package protocol

import (
	"testing"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

func TestHugeStringLengthRejected(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(DefaultMaxAllocation + 1)
	if _, err := NewDecoder(e.Bytes()).ReadString(); err != ErrAllocationTooLarge {
		t.Errorf("ReadString() error = %v, want ErrAllocationTooLarge", err)
	}
}

func TestHugeCollectionRejected(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(0) // seq
	e.WriteUvarint(MaxCollectionCount + 1)
	if _, err := DecodePatches(e.Bytes()); err != ErrCollectionTooLarge {
		t.Errorf("DecodePatches() error = %v, want ErrCollectionTooLarge", err)
	}
}

func TestCollectionCountBeyondBuffer(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1000)
	if _, err := NewDecoder(e.Bytes()).ReadStrings(); err == nil {
		t.Error("ReadStrings() should fail when count exceeds remaining bytes")
	}
}

func TestIndexOverflowRejected(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1 << 40)
	if _, err := NewDecoder(e.Bytes()).ReadIndex(); err != ErrIndexOverflow {
		t.Errorf("ReadIndex() error = %v, want ErrIndexOverflow", err)
	}
}

func TestPathDepthLimit(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxPathDepth + 1)
	for i := 0; i <= MaxPathDepth; i++ {
		e.WriteUvarint(0)
	}
	if _, err := NewDecoder(e.Bytes()).ReadPath(); err != ErrMaxDepthExceeded {
		t.Errorf("ReadPath() error = %v, want ErrMaxDepthExceeded", err)
	}
}

func nested(depth int) *vdom.VNode {
	node := vdom.Text("leaf")
	for i := 0; i < depth; i++ {
		node = vdom.Div(node)
	}
	return node
}

func TestVNodeDepthLimit(t *testing.T) {
	if _, err := DecodeVNode(EncodeVNode(nested(MaxVNodeDepth))); err != nil {
		t.Errorf("DecodeVNode() at limit error = %v", err)
	}
	if _, err := DecodeVNode(EncodeVNode(nested(MaxVNodeDepth + 1))); err != ErrMaxDepthExceeded {
		t.Errorf("DecodeVNode() past limit error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestAppendNilNodeRejected(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(1)
	e.WriteByte(byte(vdom.PatchAppendChildren))
	e.WritePath(vdom.Root)
	e.WriteUvarint(1)
	e.WriteByte(nullNode)
	if _, err := DecodePatches(e.Bytes()); err != ErrInvalidNodeKind {
		t.Errorf("DecodePatches() error = %v, want ErrInvalidNodeKind", err)
	}
}
