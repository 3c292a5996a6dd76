package vdom

import (
	"fmt"
	"slices"
)

// mirror is an in-memory live structure used to check that patch lists
// reproduce the new tree. Children are stored flattened, like a rendered DOM.
type mirror struct {
	root *VNode
}

func newMirror(tree *VNode) *mirror {
	return &mirror{root: cloneFlat(orEmpty(tree))}
}

func cloneFlat(v *VNode) *VNode {
	c := &VNode{
		Kind:      v.Kind,
		Tag:       v.Tag,
		Namespace: v.Namespace,
		Key:       v.Key,
		Text:      v.Text,
		Attrs:     slices.Clone(v.Attrs),
	}
	for _, child := range v.FlatChildren() {
		c.Children = append(c.Children, cloneFlat(child))
	}
	return c
}

func (m *mirror) node(p Path) (*VNode, error) {
	n := m.root
	for depth, i := range p {
		if i < 0 || i >= len(n.Children) {
			return nil, fmt.Errorf("path %s: no child %d at depth %d", p, i, depth)
		}
		n = n.Children[i]
	}
	return n, nil
}

func (m *mirror) apply(patches []Patch) error {
	for _, p := range patches {
		if err := m.applyOne(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (m *mirror) applyOne(p Patch) error {
	switch p.Op {
	case PatchReplaceNode:
		if p.Path.IsRoot() {
			m.root = cloneFlat(p.Node)
			return nil
		}
		parent, err := m.node(p.Path.Parent())
		if err != nil {
			return err
		}
		i := p.Path.Last()
		if i >= len(parent.Children) {
			return fmt.Errorf("no child %d", i)
		}
		parent.Children[i] = cloneFlat(p.Node)

	case PatchRemoveNode:
		parent, err := m.node(p.Path.Parent())
		if err != nil {
			return err
		}
		i := p.Path.Last()
		if i < 0 || i >= len(parent.Children) {
			return fmt.Errorf("no child %d", i)
		}
		parent.Children = slices.Delete(parent.Children, i, i+1)

	case PatchAppendChildren, PatchInsertBefore:
		parent, err := m.node(p.Path)
		if err != nil {
			return err
		}
		at := len(parent.Children)
		if p.Op == PatchInsertBefore {
			at = p.Anchor.Index
			if at < 0 || at >= len(parent.Children) {
				return fmt.Errorf("anchor %d out of range", at)
			}
			if got := parent.Children[at].Key; got != p.Anchor.Key {
				return fmt.Errorf("anchor key %q, live key %q", p.Anchor.Key, got)
			}
		}
		nodes := make([]*VNode, len(p.Nodes))
		for i, n := range p.Nodes {
			nodes[i] = cloneFlat(n)
		}
		parent.Children = slices.Insert(parent.Children, at, nodes...)

	case PatchMoveNode:
		parent, err := m.node(p.Path)
		if err != nil {
			return err
		}
		if p.From < 0 || p.From >= len(parent.Children) || p.To < 0 || p.To >= len(parent.Children) {
			return fmt.Errorf("move %d→%d out of range", p.From, p.To)
		}
		child := parent.Children[p.From]
		if child.Key != p.Key {
			return fmt.Errorf("move key %q, live key %q", p.Key, child.Key)
		}
		parent.Children = slices.Delete(parent.Children, p.From, p.From+1)
		parent.Children = slices.Insert(parent.Children, p.To, child)

	case PatchAddAttributes:
		n, err := m.node(p.Path)
		if err != nil {
			return err
		}
		for _, a := range p.Attrs {
			replaced := false
			for i := range n.Attrs {
				if n.Attrs[i].Name == a.Name {
					n.Attrs[i].Value = a.Value
					replaced = true
				}
			}
			if !replaced {
				n.Attrs = append(n.Attrs, a)
			}
		}

	case PatchRemoveAttributes:
		n, err := m.node(p.Path)
		if err != nil {
			return err
		}
		for _, name := range p.Names {
			n.Attrs = slices.DeleteFunc(n.Attrs, func(a Attr) bool { return a.Name == name })
		}

	case PatchChangeText:
		n, err := m.node(p.Path)
		if err != nil {
			return err
		}
		if n.Kind != KindText && n.Kind != KindComment {
			return fmt.Errorf("not a text node: %s", n.Kind)
		}
		n.Text = p.Text

	default:
		return fmt.Errorf("unknown op %d", p.Op)
	}
	return nil
}

// roundTrip diffs prev against next, applies the patches to a mirror of prev
// and reports whether the result is observationally equal to next.
func roundTrip(prev, next *VNode) ([]Patch, error) {
	patches := Diff(prev, next)
	m := newMirror(prev)
	if err := m.apply(patches); err != nil {
		return patches, err
	}
	if !DeepEqual(m.root, cloneFlat(orEmpty(next))) {
		return patches, fmt.Errorf("result does not match new tree")
	}
	return patches, nil
}
