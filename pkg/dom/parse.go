package dom

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// KeyAttr is the markup attribute that carries a node's reconciliation key.
const KeyAttr = "data-key"

// handlerAttrPrefix marks handler references in markup, as written by the
// renderer with HandlerAttrs enabled: data-onclick="h3".
const handlerAttrPrefix = "data-on"

// bodyContext is the context element fragments are parsed in.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse reads an HTML fragment and converts it to a tree.
//
// data-key becomes the node key, data-on<event>="h<n>" becomes a handler
// attribute, boolean attributes become true booleans, class and style become
// lists, and whitespace-only text is dropped. A single top-level node is
// returned as is; anything else is wrapped in a Fragment.
func Parse(r io.Reader) (*vdom.VNode, error) {
	nodes, err := html.ParseFragment(r, bodyContext)
	if err != nil {
		return nil, err
	}

	var top []*vdom.VNode
	for _, n := range nodes {
		if v := convert(n, nil); v != nil {
			top = append(top, v)
		}
	}
	if len(top) == 1 {
		return top[0], nil
	}
	root := &vdom.VNode{Kind: vdom.KindFragment, Children: top}
	return root, nil
}

// ParseString parses an HTML fragment held in a string.
func ParseString(s string) (*vdom.VNode, error) {
	return Parse(strings.NewReader(s))
}

// convert turns a parsed node into a tree node, or nil for nodes the tree
// model does not carry (doctype, whitespace-only text). bound supplies the
// handler references of live elements.
func convert(n *html.Node, bound func(*html.Node) []vdom.Attr) *vdom.VNode {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return vdom.Text(n.Data)

	case html.CommentNode:
		return vdom.Comment(n.Data)

	case html.ElementNode:
		v := &vdom.VNode{
			Kind:      vdom.KindElement,
			Tag:       n.Data,
			Namespace: fromHTMLNamespace(n.Namespace),
		}
		for _, a := range n.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			if name == KeyAttr {
				v.Key = a.Val
				continue
			}
			v.Attrs = append(v.Attrs, convertAttr(name, a.Val))
		}
		if bound != nil {
			v.Attrs = append(v.Attrs, bound(n)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c, bound); child != nil {
				v.Children = append(v.Children, child)
			}
		}
		return v

	default:
		return nil
	}
}

// convertAttr types a markup attribute value.
func convertAttr(name, val string) vdom.Attr {
	switch {
	case strings.HasPrefix(name, handlerAttrPrefix) && len(name) > len(handlerAttrPrefix):
		if ref, ok := parseHandlerRef(val); ok {
			return vdom.Attr{Name: "on" + name[len(handlerAttrPrefix):], Value: vdom.Handler(ref)}
		}
	case vdom.IsBooleanAttr(name):
		return vdom.Attr{Name: name, Value: vdom.Bool(true)}
	case name == "class":
		return vdom.Attr{Name: name, Value: vdom.List(strings.Fields(val)...)}
	case name == "style":
		var decls []string
		for _, d := range strings.Split(val, ";") {
			decls = append(decls, strings.TrimSpace(d))
		}
		return vdom.Attr{Name: name, Value: vdom.List(decls...)}
	}
	return vdom.Attr{Name: name, Value: vdom.String(val)}
}

func parseHandlerRef(s string) (vdom.HandlerRef, bool) {
	if !strings.HasPrefix(s, "h") {
		return 0, false
	}
	n, err := strconv.ParseUint(s[1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return vdom.HandlerRef(n), true
}

func fromHTMLNamespace(ns string) string {
	switch ns {
	case "svg":
		return vdom.SVGNamespace
	case "math":
		return vdom.MathMLNamespace
	default:
		return ns
	}
}

func toHTMLNamespace(ns string) string {
	switch ns {
	case vdom.SVGNamespace:
		return "svg"
	case vdom.MathMLNamespace:
		return "math"
	default:
		return ns
	}
}
