package vtest

import (
	"testing"

	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Mirror is a live document driven only by patches.
type Mirror struct {
	t    testing.TB
	doc  *dom.Document
	prev *vdom.VNode
	wire bool
	seq  uint64
}

// NewMirror returns a mirror holding an empty document.
func NewMirror(t testing.TB) *Mirror {
	doc := dom.NewDocument()
	doc.Mount(nil)
	return &Mirror{t: t, doc: doc}
}

// WithWire routes every patch list through the binary frame codec.
func (m *Mirror) WithWire() *Mirror {
	m.wire = true
	return m
}

// Mount replaces the document and the baseline with tree.
func (m *Mirror) Mount(tree *vdom.VNode) *Mirror {
	m.doc.Mount(tree)
	m.prev = tree
	return m
}

// Step diffs the baseline against next, applies the patches and checks the
// document now renders as next. It returns the applied patches.
func (m *Mirror) Step(next *vdom.VNode) []vdom.Patch {
	m.t.Helper()
	patches := vdom.Diff(m.prev, next)
	m.Apply(patches)
	m.Expect(next)
	m.prev = next
	return patches
}

// Apply applies patches without moving the baseline and fails the test on
// error.
func (m *Mirror) Apply(patches []vdom.Patch) {
	m.t.Helper()
	if m.wire {
		patches = m.roundTrip(patches)
	}
	if err := m.doc.Apply(patches); err != nil {
		m.t.Fatalf("apply:\n%s\nerror: %v", vdom.Patches(patches), err)
	}
}

// Expect asserts the document renders as want.
func (m *Mirror) Expect(want *vdom.VNode) {
	m.t.Helper()
	ExpectSameMarkup(m.t, m.doc.ToVNode(), want)
}

// Document returns the live document.
func (m *Mirror) Document() *dom.Document {
	return m.doc
}

func (m *Mirror) roundTrip(patches []vdom.Patch) []vdom.Patch {
	m.t.Helper()
	m.seq++
	data := protocol.NewPatchesFrame(&protocol.PatchesFrame{Seq: m.seq, Patches: patches}).Encode()
	frame, err := protocol.DecodeFrame(data)
	if err != nil {
		m.t.Fatalf("decode frame: %v", err)
	}
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		m.t.Fatalf("decode patches: %v", err)
	}
	if pf.Seq != m.seq {
		m.t.Fatalf("frame seq = %d, want %d", pf.Seq, m.seq)
	}
	return pf.Patches
}
