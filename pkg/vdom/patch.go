package vdom

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchAppendChildren   PatchOp = 0x01 // Append nodes to the children of Path
	PatchInsertBefore     PatchOp = 0x02 // Insert nodes among the children of Path, before Anchor
	PatchRemoveNode       PatchOp = 0x03 // Remove the node at Path
	PatchReplaceNode      PatchOp = 0x04 // Replace the node at Path with Node
	PatchMoveNode         PatchOp = 0x05 // Move child From of Path to index To
	PatchAddAttributes    PatchOp = 0x06 // Set Attrs on the element at Path
	PatchRemoveAttributes PatchOp = 0x07 // Remove Names from the element at Path
	PatchChangeText       PatchOp = 0x08 // Set the content of the text/comment at Path
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchAppendChildren:
		return "AppendChildren"
	case PatchInsertBefore:
		return "InsertBefore"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchAddAttributes:
		return "AddAttributes"
	case PatchRemoveAttributes:
		return "RemoveAttributes"
	case PatchChangeText:
		return "ChangeText"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (op PatchOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *PatchOp) UnmarshalText(text []byte) error {
	for o := PatchAppendChildren; o <= PatchChangeText; o++ {
		if o.String() == string(text) {
			*op = o
			return nil
		}
	}
	return fmt.Errorf("vdom: unknown patch op %q", text)
}

// Anchor names the sibling an insertion goes in front of. Index is the
// sibling's position among the live children at the time the patch is applied
// and is always set. Key is set when the sibling is keyed; appliers that track
// keys may prefer it.
type Anchor struct {
	Key   string `json:"key,omitempty"`
	Index int    `json:"index"`
}

// Patch represents a single operation against the live structure.
//
// Patches are produced in an order that is safe to apply one after the other:
// every path in a patch is valid against the live structure as left by all
// earlier patches of the same list. Applying a list out of order, partially,
// or from several goroutines at once is undefined behavior.
type Patch struct {
	Op     PatchOp  `json:"op"`
	Path   Path     `json:"path"`            // Target node, or parent for child operations
	Nodes  []*VNode `json:"nodes,omitempty"` // For AppendChildren/InsertBefore
	Node   *VNode   `json:"node,omitempty"`  // For ReplaceNode
	Anchor Anchor   `json:"anchor"`          // For InsertBefore
	From   int      `json:"from,omitempty"`  // For MoveNode: current index of the child
	To     int      `json:"to,omitempty"`    // For MoveNode: index after the move
	Key    string   `json:"key,omitempty"`   // For MoveNode: key of the moved child, if any
	Attrs  []Attr   `json:"attrs,omitempty"` // For AddAttributes
	Names  []string `json:"names,omitempty"` // For RemoveAttributes
	Text   string   `json:"text,omitempty"`  // For ChangeText
}

// FromPath returns the full path of the child a MoveNode patch moves.
func (p Patch) FromPath() Path {
	return p.Path.Child(p.From)
}

// String returns a compact one-line description for logs and tests.
func (p Patch) String() string {
	var b strings.Builder
	b.WriteString(p.Op.String())
	b.WriteByte(' ')
	b.WriteString(p.Path.String())
	switch p.Op {
	case PatchAppendChildren:
		fmt.Fprintf(&b, " nodes=%d", len(p.Nodes))
	case PatchInsertBefore:
		fmt.Fprintf(&b, " before=%d", p.Anchor.Index)
		if p.Anchor.Key != "" {
			fmt.Fprintf(&b, " key=%q", p.Anchor.Key)
		}
		fmt.Fprintf(&b, " nodes=%d", len(p.Nodes))
	case PatchReplaceNode:
		if p.Node != nil {
			fmt.Fprintf(&b, " with=%s", describe(p.Node))
		}
	case PatchMoveNode:
		fmt.Fprintf(&b, " from=%d to=%d", p.From, p.To)
		if p.Key != "" {
			fmt.Fprintf(&b, " key=%q", p.Key)
		}
	case PatchAddAttributes:
		names := make([]string, len(p.Attrs))
		for i, a := range p.Attrs {
			names[i] = a.Name
		}
		fmt.Fprintf(&b, " %s", strings.Join(names, ","))
	case PatchRemoveAttributes:
		fmt.Fprintf(&b, " %s", strings.Join(p.Names, ","))
	case PatchChangeText:
		fmt.Fprintf(&b, " %q", p.Text)
	}
	return b.String()
}

func describe(n *VNode) string {
	switch n.Kind {
	case KindElement:
		return "<" + n.Tag + ">"
	case KindText:
		return "#text"
	case KindComment:
		return "#comment"
	case KindFragment:
		return "#fragment"
	}
	return "?"
}

// Constructors

// NewAppendChildrenPatch creates an AppendChildren patch.
func NewAppendChildrenPatch(parent Path, nodes ...*VNode) Patch {
	return Patch{Op: PatchAppendChildren, Path: parent, Nodes: nodes}
}

// NewInsertBeforePatch creates an InsertBefore patch.
func NewInsertBeforePatch(parent Path, anchor Anchor, nodes ...*VNode) Patch {
	return Patch{Op: PatchInsertBefore, Path: parent, Anchor: anchor, Nodes: nodes}
}

// NewRemoveNodePatch creates a RemoveNode patch.
func NewRemoveNodePatch(path Path) Patch {
	return Patch{Op: PatchRemoveNode, Path: path}
}

// NewReplaceNodePatch creates a ReplaceNode patch.
func NewReplaceNodePatch(path Path, node *VNode) Patch {
	return Patch{Op: PatchReplaceNode, Path: path, Node: node}
}

// NewMoveNodePatch creates a MoveNode patch.
func NewMoveNodePatch(parent Path, from, to int, key string) Patch {
	return Patch{Op: PatchMoveNode, Path: parent, From: from, To: to, Key: key}
}

// NewAddAttributesPatch creates an AddAttributes patch.
func NewAddAttributesPatch(path Path, attrs ...Attr) Patch {
	return Patch{Op: PatchAddAttributes, Path: path, Attrs: attrs}
}

// NewRemoveAttributesPatch creates a RemoveAttributes patch.
func NewRemoveAttributesPatch(path Path, names ...string) Patch {
	return Patch{Op: PatchRemoveAttributes, Path: path, Names: names}
}

// NewChangeTextPatch creates a ChangeText patch.
func NewChangeTextPatch(path Path, text string) Patch {
	return Patch{Op: PatchChangeText, Path: path, Text: text}
}

// Patches is an ordered patch list.
type Patches []Patch

// Count returns the number of patches with the given op.
func (ps Patches) Count(op PatchOp) int {
	n := 0
	for _, p := range ps {
		if p.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the op of every patch, in order.
func (ps Patches) Ops() []PatchOp {
	ops := make([]PatchOp, len(ps))
	for i, p := range ps {
		ops[i] = p.Op
	}
	return ops
}

// String returns one patch per line.
func (ps Patches) String() string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// MarshalJSON encodes the list as a JSON array ([] when empty).
func (ps Patches) MarshalJSON() ([]byte, error) {
	if ps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Patch(ps))
}
