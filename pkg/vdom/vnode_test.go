package vdom

import (
	"encoding/json"
	"testing"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindFragment, "Fragment"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	node := Div(
		nil,
		ID("main"),
		Class("a"),
		[]Attr{Class("b"), TitleAttr("t")},
		"text",
		Span(),
		[]*VNode{P(), nil},
		(*VNode)(nil),
	)

	if node.Kind != KindElement || node.Tag != "div" || node.Namespace != "" {
		t.Fatalf("unexpected node %+v", node)
	}
	if len(node.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "text" {
		t.Errorf("Children[0] = %+v, want text node", node.Children[0])
	}
	if len(node.Attrs) != 3 {
		t.Fatalf("Expected 3 attrs, got %v", node.Attrs)
	}
	class, _ := node.Attr("class")
	if class.String() != "a b" {
		t.Errorf("class = %q, want merged %q", class.String(), "a b")
	}
}

func TestCreateElementKey(t *testing.T) {
	node := Li(Key(42), Class("row"))
	if node.Key != "42" {
		t.Errorf("Key = %q, want 42", node.Key)
	}
	if _, ok := node.Attr("key"); ok {
		t.Error("key must not be stored as an attribute")
	}
	if !node.HasKey() || Li().HasKey() {
		t.Error("HasKey mismatch")
	}
}

func TestAttributeMerging(t *testing.T) {
	node := Div(
		StyleAttr("color: red"),
		ID("a"),
		StyleAttr("margin: 0"),
		ID("b"),
		Class("x"),
		Classes("y z", map[string]bool{"on": true, "off": false}),
	)

	want := []string{"style", "id", "class"}
	if len(node.Attrs) != len(want) {
		t.Fatalf("Attrs = %v", node.Attrs)
	}
	for i, name := range want {
		if node.Attrs[i].Name != name {
			t.Errorf("Attrs[%d] = %s, want %s", i, node.Attrs[i].Name, name)
		}
	}

	style, _ := node.Attr("style")
	if got, _ := style.Markup("style"); got != "color: red; margin: 0" {
		t.Errorf("style = %q", got)
	}
	id, _ := node.Attr("id")
	if id.Str != "b" {
		t.Errorf("id = %q, want last declaration b", id.Str)
	}
	class, _ := node.Attr("class")
	if class.String() != "x y z on" {
		t.Errorf("class = %q, want %q", class.String(), "x y z on")
	}
}

func TestConditionalAttributes(t *testing.T) {
	node := Div(ClassIf(false, "hidden"), AttrIf(false, ID("x")), ClassIf(true, "shown"))
	if len(node.Attrs) != 1 || node.Attrs[0].Name != "class" {
		t.Errorf("Attrs = %v, want only class", node.Attrs)
	}
}

func TestHandlersLastWins(t *testing.T) {
	node := Button(OnClick(1), OnClick(2))
	v, _ := node.Attr("onclick")
	if !v.IsHandler() || v.Handler != 2 {
		t.Errorf("onclick = %v, want h2", v)
	}
	if !node.IsInteractive() || Div().IsInteractive() {
		t.Error("IsInteractive mismatch")
	}
}

func TestNamespaces(t *testing.T) {
	if n := Svg(SvgElement("circle")); n.Namespace != SVGNamespace || n.Children[0].Namespace != SVGNamespace {
		t.Errorf("svg namespace not set: %+v", n)
	}
	if n := Math(); n.Namespace != MathMLNamespace {
		t.Errorf("math namespace = %q", n.Namespace)
	}
}

func TestFlatChildren(t *testing.T) {
	plain := Div(Span(), P())
	if got := plain.FlatChildren(); &got[0] != &plain.Children[0] {
		t.Error("FlatChildren should return the original slice when nothing expands")
	}

	node := Div(Span(), Fragment(P(), Fragment(), Fragment(Em())), Fragment(nil), Code())
	flat := node.FlatChildren()
	tags := make([]string, len(flat))
	for i, c := range flat {
		tags[i] = c.Tag
	}
	want := []string{"span", "p", "em", "code"}
	if !slicesEqual(tags, want) {
		t.Errorf("FlatChildren tags = %v, want %v", tags, want)
	}
	if len(node.Children) != 4 {
		t.Error("FlatChildren must not modify the node")
	}
}

func TestCount(t *testing.T) {
	tree := Div(Span(Text("a")), Fragment(P()))
	if got := Count(tree); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	if Count(nil) != 0 {
		t.Error("Count(nil) should be 0")
	}
}

func TestHelpers(t *testing.T) {
	if If(false, Div()) != nil || If(true, Div()) == nil {
		t.Error("If mismatch")
	}
	if Unless(true, Div()) != nil {
		t.Error("Unless mismatch")
	}
	if n := IfElse(false, Div(), Span()); n.Tag != "span" {
		t.Error("IfElse mismatch")
	}
	called := false
	When(false, func() *VNode { called = true; return nil })
	if called {
		t.Error("When must be lazy")
	}
	rows := Range([]string{"a", "b"}, func(s string, i int) *VNode { return Li(Key(i), Text(s)) })
	if len(rows) != 2 || rows[1].Key != "1" {
		t.Errorf("Range = %v", rows)
	}
	if Repeat(0, func(int) *VNode { return Div() }) != nil {
		t.Error("Repeat(0) should be nil")
	}
	if Either(nil, Span()).Tag != "span" {
		t.Error("Either mismatch")
	}
	if c := Comment("x"); c.Kind != KindComment || c.Text != "x" {
		t.Error("Comment mismatch")
	}
	if EventName("onclick") != "click" || EventName("id") != "" || EventName("on") != "" {
		t.Error("EventName mismatch")
	}
}

func TestShallowAndDeepEqual(t *testing.T) {
	a := Div(ID("x"), Class("c"), Span(Text("1")))
	b := Div(Class("c"), ID("x"), Span(Text("2")))

	if !ShallowEqual(a, b) {
		t.Error("ShallowEqual should ignore children and attribute order")
	}
	if DeepEqual(a, b) {
		t.Error("DeepEqual should compare children")
	}
	if ShallowEqual(Div(ID("x")), Div(ID("y"))) {
		t.Error("ShallowEqual should compare attribute values")
	}
	if ShallowEqual(Div(OnClick(1)), Div(OnClick(2))) {
		t.Error("ShallowEqual should compare handler identity")
	}
	if ShallowEqual(Text("a"), Comment("a")) {
		t.Error("text and comment are different kinds")
	}
	if !DeepEqual(Div(Fragment(Span())), Div(Span())) {
		t.Error("DeepEqual should flatten fragments")
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{"s", String("s")},
		{3, Number(3)},
		{int64(-2), Number(-2)},
		{1.5, Number(1.5)},
		{true, Bool(true)},
		{[]string{"a", "", "b"}, List("a", "b")},
		{HandlerRef(9), Handler(9)},
		{struct{ X int }{1}, String("{1}")},
	}
	for _, tt := range tests {
		if got := ValueOf(tt.in); !got.Equal(tt.want) {
			t.Errorf("ValueOf(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestValueMarkup(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    string
		present bool
	}{
		{"id", String("x"), "x", true},
		{"width", Int(10), "10", true},
		{"opacity", Number(0.5), "0.5", true},
		{"disabled", Bool(true), "", true},
		{"disabled", Bool(false), "", false},
		{"class", List("a", "b"), "a b", true},
		{"style", List("color: red", "margin: 0"), "color: red; margin: 0", true},
		{"onclick", Handler(1), "", false},
	}
	for _, tt := range tests {
		got, ok := tt.value.Markup(tt.name)
		if got != tt.want || ok != tt.present {
			t.Errorf("%s Markup() = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.present)
		}
	}
}

func TestValueJSON(t *testing.T) {
	values := []Value{String("a"), Number(2.5), Bool(true), List("x", "y"), Handler(4)}
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		var got Value
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if !got.Equal(v) {
			t.Errorf("%s decoded to %+v", data, got)
		}
	}
	var v Value
	if err := json.Unmarshal([]byte(`{"kind":"blob"}`), &v); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestHandlerRegistry(t *testing.T) {
	reg := NewHandlerRegistry()
	fn := func() {}

	a := reg.Register(fn)
	b := reg.Register(fn)
	if a == b {
		t.Error("each registration must yield a distinct reference")
	}
	if reg.Current() != b || reg.Len() != 2 {
		t.Errorf("Current = %v, Len = %d", reg.Current(), reg.Len())
	}
	if _, ok := reg.Lookup(a); !ok {
		t.Error("Lookup(a) failed")
	}
	reg.Release(a)
	reg.Release(a)
	if _, ok := reg.Lookup(a); ok || reg.Len() != 1 {
		t.Error("Release did not forget the handler")
	}
	if a.String() != "h1" {
		t.Errorf("String() = %q, want h1", a.String())
	}
}

func TestCollectHandlers(t *testing.T) {
	tree := Div(Button(OnClick(3)), Fragment(Input(OnInput(4), OnBlur(5))))
	got := CollectHandlers(tree)
	want := map[string]HandlerRef{"/0#onclick": 3, "/1#oninput": 4, "/1#onblur": 5}
	if len(got) != len(want) {
		t.Fatalf("CollectHandlers = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if CountInteractive(tree) != 2 {
		t.Errorf("CountInteractive = %d, want 2", CountInteractive(tree))
	}
}
