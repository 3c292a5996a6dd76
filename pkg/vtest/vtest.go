package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

var canonical = render.NewRenderer(render.RendererConfig{HandlerAttrs: true})

// MustParse parses an HTML fragment and fails the test on error.
//
// Example:
//
//	tree := vtest.MustParse(t, `<ul><li data-key="a">A</li></ul>`)
func MustParse(t testing.TB, html string) *vdom.VNode {
	t.Helper()
	tree, err := dom.ParseString(html)
	if err != nil {
		t.Fatalf("parse %q: %v", truncate(html, 80), err)
	}
	return tree
}

// RenderToString renders a tree in canonical form: handlers as data-on
// markers, no pretty printing. Two trees that render the same here parse
// back to the same tree.
//
// Example:
//
//	html := vtest.RenderToString(tree)
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	html, err := canonical.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectSameMarkup asserts that two trees render identically.
func ExpectSameMarkup(t testing.TB, got, want *vdom.VNode) {
	t.Helper()
	g, w := RenderToString(got), RenderToString(want)
	if g != w {
		t.Errorf("markup mismatch\n got: %s\nwant: %s", truncate(g, 500), truncate(w, 500))
	}
}

// ExpectOps asserts the op sequence of a patch list.
//
// Example:
//
//	vtest.ExpectOps(t, patches, vdom.PatchRemoveNode, vdom.PatchAppendChildren)
func ExpectOps(t testing.TB, patches []vdom.Patch, ops ...vdom.PatchOp) {
	t.Helper()
	got := vdom.Patches(patches).Ops()
	if len(got) != len(ops) {
		t.Errorf("got %d patches, want %d:\n%s", len(got), len(ops), vdom.Patches(patches))
		return
	}
	for i := range ops {
		if got[i] != ops[i] {
			t.Errorf("patch %d is %s, want %s:\n%s", i, got[i], ops[i], vdom.Patches(patches))
			return
		}
	}
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, tree, "Welcome")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
