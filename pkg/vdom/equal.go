package vdom

// ShallowEqual reports whether a and b are interchangeable as far as the node
// itself goes: same kind, tag and namespace, the same attribute mapping (by
// value, handlers by identity, declaration order ignored) and the same text.
// Children are not compared; they are always diffed one by one.
func ShallowEqual(a, b *VNode) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindText, KindComment:
		return a.Text == b.Text
	case KindElement:
		return a.Tag == b.Tag && a.Namespace == b.Namespace && attrsEqual(a.Attrs, b.Attrs)
	}
	return true
}

// DeepEqual reports whether two trees are observationally equal: ShallowEqual
// at every position of the flattened trees.
func DeepEqual(a, b *VNode) bool {
	if a == b {
		return true
	}
	if !ShallowEqual(a, b) {
		return false
	}
	ac, bc := a.FlatChildren(), b.FlatChildren()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !DeepEqual(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// sameVariant reports whether b can be diffed in place against a rather than
// replacing it.
func sameVariant(a, b *VNode) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindElement {
		return a.Tag == b.Tag && a.Namespace == b.Namespace
	}
	return true
}

func attrsEqual(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Name == y.Name {
				if !x.Value.Equal(y.Value) {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
