package vdom

import "fmt"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindComment               // <!-- comment -->
	KindFragment              // Grouping without wrapper
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k VKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *VKind) UnmarshalText(text []byte) error {
	for c := KindElement; c <= KindFragment; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("vdom: unknown node kind %q", text)
}

// VNode is the virtual DOM node.
//
// A VNode is treated as immutable once it is handed to Diff. Subtrees may be
// shared between trees by pointer; the differ skips any pair of identical
// pointers without looking inside.
type VNode struct {
	Kind      VKind    `json:"kind"`               // Node type
	Tag       string   `json:"tag,omitempty"`      // Element tag name (e.g., "div")
	Namespace string   `json:"ns,omitempty"`       // Element namespace URI ("" for HTML)
	Attrs     []Attr   `json:"attrs,omitempty"`    // Attributes and handlers, in declaration order
	Children  []*VNode `json:"children,omitempty"` // Child nodes
	Key       string   `json:"key,omitempty"`      // Reconciliation key ("" means unkeyed)
	Text      string   `json:"text,omitempty"`     // For KindText and KindComment
}

// Attr returns the value of the named attribute and whether it is present.
func (v *VNode) Attr(name string) (Value, bool) {
	if v == nil {
		return Value{}, false
	}
	for _, a := range v.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// HasKey reports whether the node carries a reconciliation key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != ""
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for _, a := range v.Attrs {
		if a.Value.Kind == ValueHandler {
			return true
		}
	}
	return false
}

// FlatChildren returns the node's children with nested fragments expanded in
// place. The result indexes exactly like the live children of the rendered
// node. The node itself is never modified; when there is nothing to expand the
// original slice is returned.
func (v *VNode) FlatChildren() []*VNode {
	if v == nil {
		return nil
	}
	return flatten(v.Children)
}

func flatten(children []*VNode) []*VNode {
	needs := false
	for _, c := range children {
		if c == nil || c.Kind == KindFragment {
			needs = true
			break
		}
	}
	if !needs {
		return children
	}
	out := make([]*VNode, 0, len(children))
	return appendFlat(out, children)
}

func appendFlat(out, children []*VNode) []*VNode {
	for _, c := range children {
		switch {
		case c == nil:
			continue
		case c.Kind == KindFragment:
			out = appendFlat(out, c.Children)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of nodes in the tree rooted at v, fragments
// included.
func Count(v *VNode) int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.Children {
		n += Count(c)
	}
	return n
}

// Walk visits every node of the tree in document order. Returning false from
// fn skips the node's children.
func Walk(v *VNode, fn func(n *VNode, path Path) bool) {
	walk(v, Root, fn)
}

func walk(v *VNode, path Path, fn func(n *VNode, path Path) bool) {
	if v == nil || !fn(v, path) {
		return
	}
	for i, c := range v.FlatChildren() {
		walk(c, path.Child(i), fn)
	}
}

// At resolves a path against the tree rooted at v, using flattened children.
// It returns nil when the path leaves the tree.
func At(v *VNode, path Path) *VNode {
	n := v
	for _, i := range path {
		if n == nil {
			return nil
		}
		children := n.FlatChildren()
		if i < 0 || i >= len(children) {
			return nil
		}
		n = children[i]
	}
	return n
}
