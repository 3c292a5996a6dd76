// Package render serializes VNode trees to HTML markup.
//
// Output is canonical: attributes are sorted by name, keys render as
// data-key, boolean attributes render as a bare name when true and are
// omitted when false, and list values are joined (with "; " for style). Two
// equal trees therefore always render to identical bytes, which is what the
// apply check in cmd/vdiff compares.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// To stream HTML to a writer:
//
//	err := renderer.RenderToWriter(w, node)
//
// # Handlers
//
// Handler attributes have no markup form. With HandlerAttrs set they render
// as data-on<event>="<token>" markers, which pkg/dom parses back into
// handler references.
//
// # Security
//
// All text content and attribute values are escaped. Text inside script and
// style elements is written verbatim.
package render
