package dom

import (
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Bindings records which handler each live element has bound per handler
// attribute ("onclick" → h3).
type Bindings struct {
	byNode map[*html.Node]map[string]vdom.HandlerRef
}

func newBindings() *Bindings {
	return &Bindings{byNode: make(map[*html.Node]map[string]vdom.HandlerRef)}
}

// Lookup returns the handler bound to attr on n.
func (b *Bindings) Lookup(n *html.Node, attr string) (vdom.HandlerRef, bool) {
	ref, ok := b.byNode[n][attr]
	return ref, ok
}

// Len returns the number of bound handlers.
func (b *Bindings) Len() int {
	total := 0
	for _, m := range b.byNode {
		total += len(m)
	}
	return total
}

// Refs returns every bound handler reference in ascending order.
func (b *Bindings) Refs() []vdom.HandlerRef {
	var refs []vdom.HandlerRef
	for _, m := range b.byNode {
		for _, ref := range m {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

func (b *Bindings) bind(n *html.Node, attr string, ref vdom.HandlerRef) {
	m := b.byNode[n]
	if m == nil {
		m = make(map[string]vdom.HandlerRef)
		b.byNode[n] = m
	}
	m[attr] = ref
}

func (b *Bindings) unbind(n *html.Node, attr string) {
	m := b.byNode[n]
	if m == nil {
		return
	}
	delete(m, attr)
	if len(m) == 0 {
		delete(b.byNode, n)
	}
}

// unbindTree drops the bindings of n and all of its descendants.
func (b *Bindings) unbindTree(n *html.Node) {
	delete(b.byNode, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.unbindTree(c)
	}
}

// attrs returns n's bindings as handler attributes, sorted by name.
func (b *Bindings) attrs(n *html.Node) []vdom.Attr {
	m := b.byNode[n]
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]vdom.Attr, len(names))
	for i, name := range names {
		out[i] = vdom.Attr{Name: name, Value: vdom.Handler(m[name])}
	}
	return out
}
