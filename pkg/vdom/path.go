package vdom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path locates a node by the sequence of child indices leading to it from the
// root. The root is the empty path. Child indices count flattened children,
// so they match positions in the rendered structure.
//
// A Path attached to a Patch is never modified afterwards: Child always copies.
type Path []int

// Root is the path of the root node.
var Root = Path{}

// Child returns the path of the i-th child of p. The result never shares
// storage with p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path of p's parent. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Root
	}
	out := make(Path, len(p)-1)
	copy(out, p)
	return out
}

// Last returns the final index of p, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Depth returns the number of steps from the root.
func (p Path) Depth() int {
	return len(p)
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether p and q address the same position.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document (pre-order) order: an ancestor sorts before
// its descendants, and siblings by index. It returns -1, 0 or +1.
func (p Path) Compare(q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		switch {
		case p[i] < q[i]:
			return -1
		case p[i] > q[i]:
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

// IsAncestor reports whether a is a proper ancestor of b.
func IsAncestor(a, b Path) bool {
	if len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns the slash-separated form: "/" for the root, "/0/2" otherwise.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// ParsePath parses the form produced by Path.String.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "/" {
		return Root, nil
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("vdom: path %q must start with /", s)
	}
	parts := strings.Split(s[1:], "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("vdom: invalid path segment %q in %q", part, s)
		}
		p = append(p, i)
	}
	return p, nil
}

// MarshalJSON encodes the path as a JSON array. The root encodes as [].
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(p))
}
