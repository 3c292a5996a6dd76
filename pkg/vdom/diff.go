package vdom

// Diff compares two VNode trees and returns the patches needed to transform
// the rendering of prev into the rendering of next. Neither tree is modified.
// A nil tree is treated as an empty fragment.
func Diff(prev, next *VNode) []Patch {
	return DiffAt(prev, next, Root)
}

// DiffAt is Diff for a pair of subtrees that live at path in a larger
// structure. Every emitted path is prefixed with path.
func DiffAt(prev, next *VNode, path Path) []Patch {
	var patches []Patch
	diff(orEmpty(prev), orEmpty(next), path, &patches)
	return patches
}

func orEmpty(v *VNode) *VNode {
	if v == nil {
		return &VNode{Kind: KindFragment}
	}
	return v
}

// diff recursively compares two nodes living at path and appends patches.
func diff(prev, next *VNode, path Path, patches *[]Patch) {
	// Shared subtree
	if prev == next {
		return
	}

	// Different variant - replace entire node
	if !sameVariant(prev, next) {
		*patches = append(*patches, NewReplaceNodePatch(path, next))
		return
	}

	switch prev.Kind {
	case KindText, KindComment:
		if prev.Text != next.Text {
			*patches = append(*patches, NewChangeTextPatch(path, next.Text))
		}
	case KindElement:
		diffAttrs(prev, next, path, patches)
		diffChildren(prev.FlatChildren(), next.FlatChildren(), path, patches)
	case KindFragment:
		// Only reachable at the root: nested fragments are flattened away.
		diffChildren(prev.FlatChildren(), next.FlatChildren(), path, patches)
	}
}

// diffAttrs compares element attributes. Removals come first so that a
// re-bound handler is unbound before the new one is bound.
func diffAttrs(prev, next *VNode, path Path, patches *[]Patch) {
	var removed []string
	for _, a := range prev.Attrs {
		nv, ok := next.Attr(a.Name)
		if !ok {
			removed = append(removed, a.Name)
			continue
		}
		if (a.Value.IsHandler() || nv.IsHandler()) && !a.Value.Equal(nv) {
			removed = append(removed, a.Name)
		}
	}

	var added []Attr
	for _, a := range next.Attrs {
		pv, ok := prev.Attr(a.Name)
		if !ok || !pv.Equal(a.Value) {
			added = append(added, a)
		}
	}

	if len(removed) > 0 {
		*patches = append(*patches, NewRemoveAttributesPatch(path, removed...))
	}
	if len(added) > 0 {
		*patches = append(*patches, NewAddAttributesPatch(path, added...))
	}
}

// diffChildren reconciles two flattened sibling sequences under parent,
// emits the structural patches that turn the live children into next, then
// recurses into every matched pair at its new index.
func diffChildren(prev, next []*VNode, parent Path, patches *[]Patch) {
	if len(prev) == 0 && len(next) == 0 {
		return
	}

	oldIdx := make([]int, len(next))
	stable := make([]bool, len(next))
	survivor := make([]bool, len(prev))
	for _, d := range Reconcile(prev, next) {
		switch d.Op {
		case Keep:
			oldIdx[d.New] = d.Old
			stable[d.New] = true
			survivor[d.Old] = true
		case Move:
			oldIdx[d.New] = d.Old
			survivor[d.Old] = true
		case Insert:
			oldIdx[d.New] = -1
		}
	}

	emitStructure(prev, next, oldIdx, stable, survivor, parent, patches)

	for j, i := range oldIdx {
		if i >= 0 {
			diff(prev[i], next[j], parent.Child(j), patches)
		}
	}
}

// emitStructure appends the removals, insertions and moves for one parent.
//
// Removals go first, highest index first, so every path is still an old
// index. The surviving children then keep their old relative order; the
// trailing inserted run is appended, and the rest of the new sequence is
// walked right to left so that each insert or move lands directly in front of
// a neighbor that is already in its final place. Children on the longest
// increasing subsequence never move.
func emitStructure(prev, next []*VNode, oldIdx []int, stable, survivor []bool, parent Path, patches *[]Patch) {
	// Removals, and the rank of every survivor among survivors.
	rank := make([]int, len(prev))
	s := 0
	for i := range prev {
		if survivor[i] {
			rank[i] = s
			s++
		}
	}
	for i := len(prev) - 1; i >= 0; i-- {
		if !survivor[i] {
			*patches = append(*patches, NewRemoveNodePatch(parent.Child(i)))
		}
	}

	// Trailing inserts.
	n := len(next)
	tail := n
	for tail > 0 && oldIdx[tail-1] < 0 {
		tail--
	}
	if tail < n {
		*patches = append(*patches, NewAppendChildrenPatch(parent, next[tail:]...))
	}
	if tail == 0 {
		return
	}

	// Every child placed in front of a neighbor ends up in a contiguous block
	// directly before the next stable child (or after all survivors when no
	// stable child follows). Lay out one slot per survivor and per placed
	// child in live order: for each block a, the placed children of a in new
	// order, then survivor a.
	group := make([]int, tail)
	count := make([]int, s+1)
	nextStable := s
	for j := tail - 1; j >= 0; j-- {
		if stable[j] {
			nextStable = rank[oldIdx[j]]
			continue
		}
		group[j] = nextStable
		count[nextStable]++
	}
	base := make([]int, s+1)
	total := 0
	for a := 0; a <= s; a++ {
		base[a] = total
		total += count[a]
		if a < s {
			total++
		}
	}
	survivorSlot := func(r int) int { return base[r] + count[r] }
	placedSlot := make([]int, tail)
	filled := make([]int, s+1)
	for j := 0; j < tail; j++ {
		if !stable[j] {
			a := group[j]
			placedSlot[j] = base[a] + filled[a]
			filled[a]++
		}
	}

	live := newFenwick(total)
	for r := 0; r < s; r++ {
		live.add(survivorSlot(r), 1)
	}

	// slotOf returns the slot of the already-final child at new index j.
	slotOf := func(j int) int {
		if stable[j] {
			return survivorSlot(rank[oldIdx[j]])
		}
		return placedSlot[j]
	}
	// anchorAt returns the live position and identity of next[j], which is
	// already in place. Appended children follow every slotted child.
	anchorAt := func(j int) Anchor {
		a := Anchor{Key: next[j].Key}
		if j >= tail {
			a.Index = live.sum(total) + (j - tail)
		} else {
			a.Index = live.sum(slotOf(j))
		}
		return a
	}

	for j := tail - 1; j >= 0; {
		switch {
		case stable[j]:
			j--

		case oldIdx[j] < 0:
			end := j
			for j >= 0 && oldIdx[j] < 0 {
				j--
			}
			start := j + 1
			// A leading run that is not trailing always has a right neighbor.
			*patches = append(*patches, NewInsertBeforePatch(parent, anchorAt(end+1), next[start:end+1]...))
			for k := start; k <= end; k++ {
				live.add(placedSlot[k], 1)
			}

		default:
			from := survivorSlot(rank[oldIdx[j]])
			cur := live.sum(from)
			var to int
			if j+1 < n {
				anchor := anchorAt(j + 1).Index
				if cur < anchor {
					to = anchor - 1
				} else {
					to = anchor
				}
			} else {
				to = live.sum(total) - 1
			}
			live.add(from, -1)
			live.add(placedSlot[j], 1)
			if cur != to {
				*patches = append(*patches, NewMoveNodePatch(parent, cur, to, next[j].Key))
			}
			j--
		}
	}
}

// fenwick is a binary indexed tree of slot occupancy. sum(i) is the number of
// occupied slots before slot i, which is the live index of whatever occupies
// slot i.
type fenwick []int

func newFenwick(n int) fenwick {
	return make(fenwick, n+1)
}

func (f fenwick) add(i, delta int) {
	for i++; i < len(f); i += i & -i {
		f[i] += delta
	}
}

func (f fenwick) sum(i int) int {
	s := 0
	for ; i > 0; i -= i & -i {
		s += f[i]
	}
	return s
}
