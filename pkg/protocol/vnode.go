package protocol

import (
	"errors"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// nullNode marks a nil node in the wire format.
const nullNode = 0xFF

// ErrInvalidNodeKind is returned when a tree contains an unknown node kind.
var ErrInvalidNodeKind = errors.New("protocol: invalid node kind")

// EncodeVNode encodes a tree to bytes.
func EncodeVNode(node *vdom.VNode) []byte {
	e := NewEncoder()
	EncodeVNodeTo(e, node)
	return e.Bytes()
}

// EncodeVNodeTo encodes a tree using the provided encoder.
//
// Wire format, per node:
//
//	[Kind: byte]                          0xFF for nil
//	Element:  [Tag][Namespace][Key][Attrs][Children]
//	Text:     [Text]
//	Comment:  [Text]
//	Fragment: [Children]
//
// Attributes keep their declaration order and value types; handlers travel as
// their token. Children are written as given (fragments are not flattened).
func EncodeVNodeTo(e *Encoder, node *vdom.VNode) {
	if node == nil {
		e.WriteByte(nullNode)
		return
	}

	e.WriteByte(byte(node.Kind))

	switch node.Kind {
	case vdom.KindElement:
		e.WriteString(node.Tag)
		e.WriteString(node.Namespace)
		e.WriteString(node.Key)
		e.WriteAttrs(node.Attrs)
		encodeChildren(e, node.Children)

	case vdom.KindText, vdom.KindComment:
		e.WriteString(node.Text)

	case vdom.KindFragment:
		encodeChildren(e, node.Children)
	}
}

func encodeChildren(e *Encoder, children []*vdom.VNode) {
	e.WriteUvarint(uint64(len(children)))
	for _, child := range children {
		EncodeVNodeTo(e, child)
	}
}

// DecodeVNode decodes a tree from bytes.
func DecodeVNode(data []byte) (*vdom.VNode, error) {
	return DecodeVNodeFrom(NewDecoder(data))
}

// DecodeVNodeFrom decodes a tree from the decoder.
// SECURITY: Enforces MaxVNodeDepth to prevent stack overflow attacks.
func DecodeVNodeFrom(d *Decoder) (*vdom.VNode, error) {
	return decodeVNodeWithDepth(d, 0)
}

// decodeVNodeWithDepth decodes a node with depth tracking.
func decodeVNodeWithDepth(d *Decoder, depth int) (*vdom.VNode, error) {
	// SECURITY: Check depth limit before any work
	if err := checkDepth(depth, MaxVNodeDepth); err != nil {
		return nil, err
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	if kindByte == nullNode {
		return nil, nil
	}

	node := &vdom.VNode{Kind: vdom.VKind(kindByte)}

	switch node.Kind {
	case vdom.KindElement:
		if node.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		if node.Namespace, err = d.ReadString(); err != nil {
			return nil, err
		}
		if node.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if node.Attrs, err = d.ReadAttrs(); err != nil {
			return nil, err
		}
		if node.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}

	case vdom.KindText, vdom.KindComment:
		if node.Text, err = d.ReadString(); err != nil {
			return nil, err
		}

	case vdom.KindFragment:
		if node.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}

	default:
		return nil, ErrInvalidNodeKind
	}

	return node, nil
}

func decodeChildren(d *Decoder, depth int) ([]*vdom.VNode, error) {
	// SECURITY: Use ReadCollectionCount to prevent DoS
	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}
	children := make([]*vdom.VNode, count)
	for i := range children {
		// SECURITY: Increment depth for child nodes
		if children[i], err = decodeVNodeWithDepth(d, depth+1); err != nil {
			return nil, err
		}
	}
	return children, nil
}

// decodeNodes decodes a count-prefixed list of non-nil nodes.
func decodeNodes(d *Decoder) ([]*vdom.VNode, error) {
	nodes, err := decodeChildren(d, 0)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n == nil {
			return nil, ErrInvalidNodeKind
		}
	}
	return nodes, nil
}

// TreeFrame carries a full tree with the sequence number it starts from.
// Patch frames that follow continue the sequence.
type TreeFrame struct {
	Seq  uint64
	Root *vdom.VNode
}

// EncodeTree encodes a tree frame to bytes.
func EncodeTree(tf *TreeFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(tf.Seq)
	EncodeVNodeTo(e, tf.Root)
	return e.Bytes()
}

// DecodeTree decodes a tree frame from bytes.
func DecodeTree(data []byte) (*TreeFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	root, err := DecodeVNodeFrom(d)
	if err != nil {
		return nil, err
	}
	return &TreeFrame{Seq: seq, Root: root}, nil
}
