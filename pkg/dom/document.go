package dom

import (
	"io"
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Document is a live structure that patch lists are applied to. It mirrors
// what a browser holds for a mounted tree: a container whose children are
// the rendered root, plus the handler bindings of every live element.
//
// The empty path addresses the root node, or the container itself when the
// mounted root is a fragment. A Document is not safe for concurrent use.
type Document struct {
	container    *html.Node
	rootFragment bool
	mounted      bool
	bindings     *Bindings
	logger       *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for apply diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// NewDocument creates an empty, unmounted document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		container: &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body},
		bindings:  newBindings(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mount replaces the document's content with the rendering of tree. A nil
// tree mounts an empty fragment.
func (d *Document) Mount(tree *vdom.VNode) {
	d.clear()
	d.rootFragment = tree == nil || tree.Kind == vdom.KindFragment
	for _, n := range d.materialize(tree) {
		d.container.AppendChild(n)
	}
	d.mounted = true
}

// Apply applies patches in order. Each patch's paths are resolved against
// the structure left by the patches before it. Application stops at the first
// patch that does not fit; the error names that patch and the document keeps
// the effects of the patches before it.
func (d *Document) Apply(patches []vdom.Patch) error {
	if !d.mounted {
		return errors.New(errors.CodeNotMounted)
	}
	for i := range patches {
		if err := d.apply(&patches[i]); err != nil {
			e := errors.FromError(err, errors.CodeMissingNode).WithPatch(i, patches[i])
			d.logger.Debug("patch failed", "op", patches[i].Op.String(), "path", patches[i].Path.String(), "error", e)
			return e
		}
	}
	d.logger.Debug("patches applied", "patches", len(patches))
	return nil
}

// Root returns the live root node, or the container when the root is a
// fragment. It returns nil before Mount.
func (d *Document) Root() *html.Node {
	if !d.mounted {
		return nil
	}
	if d.rootFragment {
		return d.container
	}
	return d.container.FirstChild
}

// Bindings returns the handler bindings of the live elements.
func (d *Document) Bindings() *Bindings {
	return d.bindings
}

// Resolve returns the live node at path.
func (d *Document) Resolve(path vdom.Path) (*html.Node, error) {
	n := d.Root()
	if n == nil {
		return nil, errors.New(errors.CodeMissingNode).WithDetailf("nothing is mounted at %s", path)
	}
	for depth, idx := range path {
		child := childAt(n, idx)
		if child == nil {
			return nil, errors.New(errors.CodeMissingNode).
				WithDetailf("%s has no child %d (path %s)", path[:depth], idx, path)
		}
		n = child
	}
	return n, nil
}

// ToVNode converts the live structure back into a tree, with handler
// attributes restored from the bindings. Attribute values come back as they
// appear in markup.
func (d *Document) ToVNode() *vdom.VNode {
	var children []*vdom.VNode
	for c := d.container.FirstChild; c != nil; c = c.NextSibling {
		if v := convert(c, d.bindings.attrs); v != nil {
			children = append(children, v)
		}
	}
	if !d.rootFragment && len(children) == 1 {
		return children[0]
	}
	return &vdom.VNode{Kind: vdom.KindFragment, Children: children}
}

// Render writes the live structure as HTML.
func (d *Document) Render(w io.Writer) error {
	for c := d.container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) apply(p *vdom.Patch) error {
	switch p.Op {
	case vdom.PatchAppendChildren:
		parent, err := d.resolveParent(p.Path)
		if err != nil {
			return err
		}
		for _, n := range d.materializeAll(p.Nodes) {
			parent.AppendChild(n)
		}

	case vdom.PatchInsertBefore:
		parent, err := d.resolveParent(p.Path)
		if err != nil {
			return err
		}
		ref := childAt(parent, p.Anchor.Index)
		if ref == nil {
			return errors.New(errors.CodeIndexOutOfRange).
				WithDetailf("anchor index %d, %s has %d children", p.Anchor.Index, p.Path, childCount(parent))
		}
		if p.Anchor.Key != "" && keyOf(ref) != p.Anchor.Key {
			return errors.New(errors.CodeAnchorMismatch).
				WithDetailf("expected key %q at index %d, found %q", p.Anchor.Key, p.Anchor.Index, keyOf(ref))
		}
		for _, n := range d.materializeAll(p.Nodes) {
			parent.InsertBefore(n, ref)
		}

	case vdom.PatchRemoveNode:
		if p.Path.IsRoot() {
			d.clear()
			d.rootFragment = true
			return nil
		}
		target, err := d.Resolve(p.Path)
		if err != nil {
			return err
		}
		d.bindings.unbindTree(target)
		target.Parent.RemoveChild(target)

	case vdom.PatchReplaceNode:
		if p.Path.IsRoot() {
			d.Mount(p.Node)
			return nil
		}
		target, err := d.Resolve(p.Path)
		if err != nil {
			return err
		}
		parent := target.Parent
		for _, n := range d.materialize(p.Node) {
			parent.InsertBefore(n, target)
		}
		d.bindings.unbindTree(target)
		parent.RemoveChild(target)

	case vdom.PatchMoveNode:
		parent, err := d.resolveParent(p.Path)
		if err != nil {
			return err
		}
		child := childAt(parent, p.From)
		if child == nil {
			return errors.New(errors.CodeIndexOutOfRange).
				WithDetailf("move source %d, %s has %d children", p.From, p.Path, childCount(parent))
		}
		if p.Key != "" && keyOf(child) != p.Key {
			return errors.New(errors.CodeMoveKeyMismatch).
				WithDetailf("expected key %q at index %d, found %q", p.Key, p.From, keyOf(child))
		}
		if count := childCount(parent); p.To < 0 || p.To >= count {
			return errors.New(errors.CodeIndexOutOfRange).
				WithDetailf("move target %d, %s has %d children", p.To, p.Path, count)
		}
		parent.RemoveChild(child)
		parent.InsertBefore(child, childAt(parent, p.To))

	case vdom.PatchAddAttributes:
		target, err := d.resolveElement(p.Path)
		if err != nil {
			return err
		}
		for _, a := range p.Attrs {
			d.setAttr(target, a)
		}

	case vdom.PatchRemoveAttributes:
		target, err := d.resolveElement(p.Path)
		if err != nil {
			return err
		}
		for _, name := range p.Names {
			removeAttr(target, name)
			d.bindings.unbind(target, name)
		}

	case vdom.PatchChangeText:
		target, err := d.Resolve(p.Path)
		if err != nil {
			return err
		}
		if target.Type != html.TextNode && target.Type != html.CommentNode {
			return errors.New(errors.CodeNotText).WithDetailf("%s is a %s", p.Path, describe(target))
		}
		target.Data = p.Text

	default:
		return errors.New(errors.CodeUnknownPatchOp).WithDetailf("op %s", p.Op)
	}
	return nil
}

// resolveParent resolves a path that must hold children: an element or the
// fragment container.
func (d *Document) resolveParent(path vdom.Path) (*html.Node, error) {
	n, err := d.Resolve(path)
	if err != nil {
		return nil, err
	}
	if n.Type != html.ElementNode {
		return nil, errors.New(errors.CodeNotElement).WithDetailf("%s is a %s", path, describe(n))
	}
	return n, nil
}

// resolveElement resolves a path that must hold an element other than the
// container.
func (d *Document) resolveElement(path vdom.Path) (*html.Node, error) {
	n, err := d.resolveParent(path)
	if err != nil {
		return nil, err
	}
	if n == d.container {
		return nil, errors.New(errors.CodeNotElement).WithDetail("the fragment root has no attributes")
	}
	return n, nil
}

// clear removes all content and unbinds every handler.
func (d *Document) clear() {
	for c := d.container.FirstChild; c != nil; {
		next := c.NextSibling
		d.bindings.unbindTree(c)
		d.container.RemoveChild(c)
		c = next
	}
}

func (d *Document) materializeAll(nodes []*vdom.VNode) []*html.Node {
	var out []*html.Node
	for _, v := range nodes {
		out = append(out, d.materialize(v)...)
	}
	return out
}

// materialize builds the live nodes for v. Fragments contribute their
// flattened children.
func (d *Document) materialize(v *vdom.VNode) []*html.Node {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case vdom.KindText:
		return []*html.Node{{Type: html.TextNode, Data: v.Text}}
	case vdom.KindComment:
		return []*html.Node{{Type: html.CommentNode, Data: v.Text}}
	case vdom.KindFragment:
		return d.materializeAll(v.FlatChildren())
	}

	n := &html.Node{
		Type:      html.ElementNode,
		Data:      v.Tag,
		DataAtom:  atom.Lookup([]byte(v.Tag)),
		Namespace: toHTMLNamespace(v.Namespace),
	}
	for _, a := range v.Attrs {
		d.setAttr(n, a)
	}
	if v.Key != "" {
		setAttrText(n, KeyAttr, v.Key)
	}
	for _, c := range d.materializeAll(v.FlatChildren()) {
		n.AppendChild(c)
	}
	return []*html.Node{n}
}

// setAttr mirrors one attribute into a live element. Handlers are bound
// rather than written; a false boolean removes the attribute.
func (d *Document) setAttr(n *html.Node, a vdom.Attr) {
	if a.Value.IsHandler() {
		removeAttr(n, a.Name)
		d.bindings.bind(n, a.Name, a.Value.Handler)
		return
	}
	d.bindings.unbind(n, a.Name)
	text, ok := a.Value.Markup(a.Name)
	if !ok {
		removeAttr(n, a.Name)
		return
	}
	setAttrText(n, a.Name, text)
}

func setAttrText(n *html.Node, name, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name && n.Attr[i].Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

func removeAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name && n.Attr[i].Namespace == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func keyOf(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == KeyAttr && a.Namespace == "" {
			return a.Val
		}
	}
	return ""
}

func childAt(n *html.Node, idx int) *html.Node {
	if idx < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && idx > 0; idx-- {
		c = c.NextSibling
	}
	return c
}

func childCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

func describe(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return "text node"
	case html.CommentNode:
		return "comment"
	case html.ElementNode:
		return "<" + n.Data + "> element"
	default:
		return "node"
	}
}
