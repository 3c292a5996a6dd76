package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output adds whitespace text and does not parse back to the
	// same tree.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// HandlerAttrs renders handler attributes as data-on<event>="<token>"
	// markers. Without it handlers are omitted from the markup.
	HandlerAttrs bool
}

// Renderer serializes VNode trees to HTML. A Renderer holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer. A nil node
// renders nothing.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	sw := &stickyWriter{w: w}
	if err := r.renderNode(sw, node, 0, r.config.Pretty); err != nil {
		return err
	}
	return sw.err
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w *stickyWriter, node *vdom.VNode, depth int, pretty bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth, pretty)
	case vdom.KindText:
		w.WriteString(escapeHTML(node.Text))
	case vdom.KindComment:
		w.WriteString("<!--")
		w.WriteString(node.Text)
		w.WriteString("-->")
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth, pretty); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
	return nil
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w *stickyWriter, node *vdom.VNode, depth int, pretty bool) error {
	tag := node.Tag

	if pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteString("<")
	w.WriteString(tag)
	r.renderAttributes(w, node)
	w.WriteString(">")

	if vdom.IsVoidElement(tag) {
		if pretty {
			w.WriteString("\n")
		}
		return nil
	}

	children := node.FlatChildren()
	switch {
	case rawTextElements[tag]:
		for _, child := range children {
			if child.Kind == vdom.KindText {
				w.WriteString(child.Text)
			}
		}

	case pretty && hasBlockChildren(tag, children):
		w.WriteString("\n")
		for _, child := range children {
			if child.Kind != vdom.KindElement {
				r.writeIndent(w, depth+1)
				if err := r.renderNode(w, child, depth+1, false); err != nil {
					return err
				}
				w.WriteString("\n")
				continue
			}
			if err := r.renderNode(w, child, depth+1, true); err != nil {
				return err
			}
		}
		r.writeIndent(w, depth)

	default:
		for _, child := range children {
			if err := r.renderNode(w, child, depth+1, false); err != nil {
				return err
			}
		}
	}

	w.WriteString("</")
	w.WriteString(tag)
	w.WriteString(">")
	if pretty {
		w.WriteString("\n")
	}
	return nil
}

type markupAttr struct {
	name  string
	value string
	bare  bool
}

// renderAttributes renders the attributes of an element sorted by name, so
// equal trees always produce identical markup. A keyed element carries its key
// as data-key unless it already has that attribute.
func (r *Renderer) renderAttributes(w *stickyWriter, node *vdom.VNode) {
	attrs := make([]markupAttr, 0, len(node.Attrs)+1)
	hasKeyAttr := false

	for _, a := range node.Attrs {
		if a.Name == "data-key" {
			hasKeyAttr = true
		}
		if a.Value.IsHandler() {
			if r.config.HandlerAttrs {
				attrs = append(attrs, markupAttr{
					name:  "data-on" + vdom.EventName(a.Name),
					value: a.Value.Handler.String(),
				})
			}
			continue
		}
		text, ok := a.Value.Markup(a.Name)
		if !ok {
			continue
		}
		bare := a.Value.Kind == vdom.ValueBool
		attrs = append(attrs, markupAttr{name: a.Name, value: text, bare: bare})
	}
	if node.Key != "" && !hasKeyAttr {
		attrs = append(attrs, markupAttr{name: "data-key", value: node.Key})
	}

	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })

	for _, a := range attrs {
		w.WriteString(" ")
		w.WriteString(a.name)
		if a.bare {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(escapeAttr(a.value))
		w.WriteString(`"`)
	}
}

// hasBlockChildren reports whether pretty mode should break the element's
// children onto their own lines.
func hasBlockChildren(tag string, children []*vdom.VNode) bool {
	if inlineElements[tag] {
		return false
	}
	for _, c := range children {
		if c.Kind == vdom.KindElement {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *stickyWriter, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}

// stickyWriter remembers the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) WriteString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}
