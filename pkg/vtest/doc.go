// Package vtest provides testing helpers for diffing and applying trees.
//
// The vtest package reduces boilerplate in tests that parse markup, diff
// trees and check that a live document ends up where it should.
//
// # Quick Start
//
//	func TestRowsReorder(t *testing.T) {
//	    m := vtest.NewMirror(t)
//	    m.Step(vtest.MustParse(t, `<ul><li data-key="a">A</li><li data-key="b">B</li></ul>`))
//	    patches := m.Step(vtest.MustParse(t, `<ul><li data-key="b">B</li><li data-key="a">A</li></ul>`))
//	    vtest.ExpectOps(t, patches, vdom.PatchMoveNode)
//	}
//
// # Mirror
//
// A Mirror is a live document that is only ever changed by patches. Each
// Step diffs the previous tree against the next, applies the patches and
// fails the test unless the document renders the same as the next tree:
//
//	m := vtest.NewMirror(t).WithWire()
//	for _, tree := range trees {
//	    m.Step(tree)
//	}
//
// WithWire sends every patch list through the binary codec before it is
// applied.
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, tree, `data-key="a"`)
//	vtest.ExpectElement(t, tree, "li")
//	vtest.ExpectAttribute(t, tree, "class", "done")
package vtest
