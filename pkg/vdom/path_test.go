package vdom

import (
	"encoding/json"
	"testing"
)

func TestPathChildDoesNotShareStorage(t *testing.T) {
	base := make(Path, 1, 8)
	base[0] = 1

	a := base.Child(2)
	b := base.Child(3)

	if !a.Equal(Path{1, 2}) {
		t.Errorf("a = %v, want /1/2", a)
	}
	if !b.Equal(Path{1, 3}) {
		t.Errorf("b = %v, want /1/3 (a and b must not alias)", b)
	}
}

func TestPathParentLast(t *testing.T) {
	p := Path{0, 4, 2}
	if got := p.Parent(); !got.Equal(Path{0, 4}) {
		t.Errorf("Parent() = %v, want /0/4", got)
	}
	if got := p.Last(); got != 2 {
		t.Errorf("Last() = %d, want 2", got)
	}
	if got := Root.Parent(); !got.IsRoot() {
		t.Errorf("Root.Parent() = %v, want /", got)
	}
	if got := Root.Last(); got != -1 {
		t.Errorf("Root.Last() = %d, want -1", got)
	}
	if p.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", p.Depth())
	}
}

func TestIsAncestor(t *testing.T) {
	tests := []struct {
		a, b Path
		want bool
	}{
		{Root, Path{0}, true},
		{Path{0}, Path{0, 1}, true},
		{Path{0}, Path{0}, false},
		{Path{0, 1}, Path{0}, false},
		{Path{1}, Path{0, 1}, false},
		{Root, Root, false},
	}
	for _, tt := range tests {
		if got := IsAncestor(tt.a, tt.b); got != tt.want {
			t.Errorf("IsAncestor(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPathCompare(t *testing.T) {
	ordered := []Path{Root, {0}, {0, 0}, {0, 1}, {1}, {1, 0, 5}, {2}}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Compare(ordered[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Errorf("%v.Compare(%v) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestPathStringParse(t *testing.T) {
	tests := []struct {
		path Path
		str  string
	}{
		{Root, "/"},
		{Path{0}, "/0"},
		{Path{0, 12, 3}, "/0/12/3"},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		parsed, err := ParsePath(tt.str)
		if err != nil {
			t.Fatalf("ParsePath(%q) error: %v", tt.str, err)
		}
		if !parsed.Equal(tt.path) {
			t.Errorf("ParsePath(%q) = %v, want %v", tt.str, parsed, tt.path)
		}
	}

	for _, bad := range []string{"0/1", "/a", "/1//2", "/-1"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) should fail", bad)
		}
	}
}

func TestPathMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Path `json:"a"`
		B Path `json:"b"`
	}{nil, Path{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":[],"b":[1,2]}` {
		t.Errorf("json = %s", data)
	}
}

func TestAtAndWalk(t *testing.T) {
	tree := Div(
		Span(Text("a")),
		Fragment(P(Text("b")), P(Text("c"))),
	)

	if n := At(tree, Path{2, 0}); n == nil || n.Text != "c" {
		t.Errorf("At(/2/0) = %v, want text c", n)
	}
	if n := At(tree, Path{3}); n != nil {
		t.Errorf("At(/3) = %v, want nil", n)
	}

	var visited []string
	Walk(tree, func(n *VNode, p Path) bool {
		visited = append(visited, p.String())
		return n.Tag != "span"
	})
	want := []string{"/", "/0", "/1", "/1/0", "/2", "/2/0"}
	if !slicesEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}
