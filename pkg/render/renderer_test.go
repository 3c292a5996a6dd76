package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nested",
			node: vdom.Div(vdom.Class("container"), vdom.H1(vdom.Text("Title")), vdom.P(vdom.Text("Content"))),
			want: `<div class="container"><h1>Title</h1><p>Content</p></div>`,
		},
		{
			name: "void",
			node: vdom.Input(vdom.Type("text"), vdom.Name("email")),
			want: `<input name="email" type="text">`,
		},
		{
			name: "sorted_attrs",
			node: vdom.Img(vdom.Src("/image.png"), vdom.Alt("test")),
			want: `<img alt="test" src="/image.png">`,
		},
		{
			name: "empty",
			node: vdom.Div(),
			want: `<div></div>`,
		},
		{
			name: "boolean_true_and_false",
			node: vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Disabled(false)),
			want: `<input checked type="checkbox">`,
		},
		{
			name: "class_list",
			node: vdom.Div(vdom.Class("a", "b"), vdom.Class("c")),
			want: `<div class="a b c"></div>`,
		},
		{
			name: "style_list",
			node: vdom.Div(vdom.StyleAttr("color: red", "margin: 0")),
			want: `<div style="color: red; margin: 0"></div>`,
		},
		{
			name: "number",
			node: vdom.Td(vdom.Colspan(2)),
			want: `<td colspan="2"></td>`,
		},
		{
			name: "empty_string_value",
			node: vdom.Div(vdom.TitleAttr("")),
			want: `<div title=""></div>`,
		},
		{
			name: "key",
			node: vdom.Li(vdom.Key("row-1"), vdom.ID("x")),
			want: `<li data-key="row-1" id="x"></li>`,
		},
		{
			name: "comment",
			node: vdom.Div(vdom.Comment(" marker "), vdom.Text("x")),
			want: `<div><!-- marker -->x</div>`,
		},
		{
			name: "nested_fragments",
			node: vdom.Fragment(vdom.Fragment(vdom.Span(vdom.Text("A")), vdom.Span(vdom.Text("B"))), vdom.Span(vdom.Text("C"))),
			want: `<span>A</span><span>B</span><span>C</span>`,
		},
		{
			name: "script_verbatim",
			node: vdom.Element("", "script", vdom.Text("if (a < b) {}")),
			want: `<script>if (a < b) {}</script>`,
		},
		{
			name: "svg",
			node: vdom.Svg(vdom.SvgElement("circle", vdom.AttrOf("r", 4))),
			want: `<svg><circle r="4"></circle></svg>`,
		},
		{
			name: "nil",
			node: nil,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderHandlers(t *testing.T) {
	node := vdom.Button(vdom.OnClick(7), vdom.Text("Click"))

	plain, _ := NewRenderer(RendererConfig{}).RenderToString(node)
	if plain != "<button>Click</button>" {
		t.Errorf("handlers should be omitted, got %q", plain)
	}

	marked, _ := NewRenderer(RendererConfig{HandlerAttrs: true}).RenderToString(node)
	if marked != `<button data-onclick="h7">Click</button>` {
		t.Errorf("got %q", marked)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Input(vdom.ValueAttr(`test" onclick="alert('xss')`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `value="test&quot; onclick=&quot;`) {
		t.Errorf("should have properly escaped value attribute, got %q", html)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	node := vdom.Div(
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Hello "), vdom.Strong(vdom.Text("world"))),
		vdom.Br(),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "<div>\n" +
		"  <h1>Title</h1>\n" +
		"  <p>\n" +
		"    Hello \n" +
		"    <strong>world</strong>\n" +
		"  </p>\n" +
		"  <br>\n" +
		"</div>\n"
	if html != want {
		t.Errorf("got:\n%s\nwant:\n%s", html, want)
	}
}

func TestRenderToWriter(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderToWriter(&buf, vdom.Div(vdom.Text("Hello"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<div>Hello</div>" {
		t.Errorf("got %q, want %q", buf.String(), "<div>Hello</div>")
	}
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errors.New("disk full")
	}
	f.n--
	return len(p), nil
}

func TestRenderWriteError(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	err := renderer.RenderToWriter(&failingWriter{n: 2}, vdom.Div(vdom.P(vdom.Text("x"))))
	if err == nil || err.Error() != "disk full" {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	if _, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.VKind(99)}); err == nil {
		t.Error("expected error for unknown node kind")
	}
}
