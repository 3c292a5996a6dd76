package vdom

// Namespaces for foreign elements.
const (
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// booleanAttrs are HTML attributes whose presence means true.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr returns true if name is an HTML boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
// Repeated attribute names merge (see Attr); a "key" attribute sets the
// node's reconciliation key instead of an attribute.
func createElement(ns, tag string, args []any) *VNode {
	node := &VNode{
		Kind:      KindElement,
		Tag:       tag,
		Namespace: ns,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue
		case Attr:
			node.addAttr(v)
		case []Attr:
			for _, a := range v {
				node.addAttr(a)
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case string:
			// Shorthand for text node
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

func (v *VNode) addAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Name == "key" {
		v.Key = a.Value.String()
		return
	}
	v.Attrs = setAttr(v.Attrs, a)
}

// Document structure elements

func Html(args ...any) *VNode  { return createElement("", "html", args) }
func Head(args ...any) *VNode  { return createElement("", "head", args) }
func Body(args ...any) *VNode  { return createElement("", "body", args) }
func Title(args ...any) *VNode { return createElement("", "title", args) }
func Meta(args ...any) *VNode  { return createElement("", "meta", args) }
func Link(args ...any) *VNode  { return createElement("", "link", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("", "header", args) }
func Footer(args ...any) *VNode  { return createElement("", "footer", args) }
func Main(args ...any) *VNode    { return createElement("", "main", args) }
func Nav(args ...any) *VNode     { return createElement("", "nav", args) }
func Section(args ...any) *VNode { return createElement("", "section", args) }
func Article(args ...any) *VNode { return createElement("", "article", args) }
func Aside(args ...any) *VNode   { return createElement("", "aside", args) }
func H1(args ...any) *VNode      { return createElement("", "h1", args) }
func H2(args ...any) *VNode      { return createElement("", "h2", args) }
func H3(args ...any) *VNode      { return createElement("", "h3", args) }

// Text content elements

func Div(args ...any) *VNode  { return createElement("", "div", args) }
func P(args ...any) *VNode    { return createElement("", "p", args) }
func Span(args ...any) *VNode { return createElement("", "span", args) }
func Pre(args ...any) *VNode  { return createElement("", "pre", args) }
func Ul(args ...any) *VNode   { return createElement("", "ul", args) }
func Ol(args ...any) *VNode   { return createElement("", "ol", args) }
func Li(args ...any) *VNode   { return createElement("", "li", args) }
func Hr(args ...any) *VNode   { return createElement("", "hr", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("", "a", args) }
func Strong(args ...any) *VNode { return createElement("", "strong", args) }
func Em(args ...any) *VNode     { return createElement("", "em", args) }
func Code(args ...any) *VNode   { return createElement("", "code", args) }
func Br(args ...any) *VNode     { return createElement("", "br", args) }

// Form elements

func Form(args ...any) *VNode     { return createElement("", "form", args) }
func Input(args ...any) *VNode    { return createElement("", "input", args) }
func Textarea(args ...any) *VNode { return createElement("", "textarea", args) }
func Select(args ...any) *VNode   { return createElement("", "select", args) }
func Option(args ...any) *VNode   { return createElement("", "option", args) }
func Button(args ...any) *VNode   { return createElement("", "button", args) }
func Label(args ...any) *VNode    { return createElement("", "label", args) }

// Table elements

func Table(args ...any) *VNode { return createElement("", "table", args) }
func Thead(args ...any) *VNode { return createElement("", "thead", args) }
func Tbody(args ...any) *VNode { return createElement("", "tbody", args) }
func Tr(args ...any) *VNode    { return createElement("", "tr", args) }
func Th(args ...any) *VNode    { return createElement("", "th", args) }
func Td(args ...any) *VNode    { return createElement("", "td", args) }

// Media elements

func Img(args ...any) *VNode { return createElement("", "img", args) }

// Foreign elements

// Svg creates an <svg> element in the SVG namespace.
func Svg(args ...any) *VNode { return createElement(SVGNamespace, "svg", args) }

// Math creates a <math> element in the MathML namespace.
func Math(args ...any) *VNode { return createElement(MathMLNamespace, "math", args) }

// SvgElement creates an element with the given tag in the SVG namespace
// (e.g., "circle", "path").
func SvgElement(tag string, args ...any) *VNode {
	return createElement(SVGNamespace, tag, args)
}

// Interactive elements

func Details(args ...any) *VNode { return createElement("", "details", args) }
func Summary(args ...any) *VNode { return createElement("", "summary", args) }
func Dialog(args ...any) *VNode  { return createElement("", "dialog", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *VNode {
	return createElement("", tag, args)
}

// Element creates an element with an explicit namespace ("" for HTML).
func Element(ns, tag string, args ...any) *VNode {
	return createElement(ns, tag, args)
}
