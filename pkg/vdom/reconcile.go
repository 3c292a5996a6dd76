package vdom

// DecisionOp is the outcome of reconciling one child.
type DecisionOp uint8

const (
	Keep   DecisionOp = iota // Matched and already in relative order
	Insert                   // New child with no counterpart
	Remove                   // Old child with no counterpart
	Move                     // Matched but out of relative order
)

// String returns the string representation of the DecisionOp.
func (op DecisionOp) String() string {
	switch op {
	case Keep:
		return "Keep"
	case Insert:
		return "Insert"
	case Remove:
		return "Remove"
	case Move:
		return "Move"
	default:
		return "Unknown"
	}
}

// Decision is a per-child reconciliation result. Old and New are indices into
// the old and new sibling sequences; the one that does not apply is -1.
type Decision struct {
	Op  DecisionOp
	Old int
	New int
}

// Reconcile matches two sibling sequences and decides, for every child, whether
// it is kept, moved, inserted or removed.
//
// Without any key on either side children pair by position. Otherwise keyed
// children pair by key (the first occurrence of a duplicated key wins and later
// duplicates are unmatched), and unkeyed children pair with the unkeyed child
// at the same rank among unkeyed siblings. Of the matched pairs, those on a
// longest increasing run of old indices (taken in new order) are kept and the
// rest are moved, which minimizes the number of moves.
//
// Decisions for the new sequence come first, in new order, followed by
// removals in ascending old order.
func Reconcile(old, new []*VNode) []Decision {
	oldIdx := match(old, new)
	return decide(len(old), oldIdx)
}

// match returns, for every new index, the index of the old child it pairs with
// or -1.
func match(old, new []*VNode) []int {
	oldIdx := make([]int, len(new))

	if !hasKeys(old) && !hasKeys(new) {
		for j := range new {
			if j < len(old) {
				oldIdx[j] = j
			} else {
				oldIdx[j] = -1
			}
		}
		return oldIdx
	}

	// First occurrence of every old key, and the unkeyed old children in order.
	byKey := make(map[string]int, len(old))
	var unkeyed []int
	for i, c := range old {
		if !c.HasKey() {
			unkeyed = append(unkeyed, i)
			continue
		}
		if _, dup := byKey[c.Key]; !dup {
			byKey[c.Key] = i
		}
	}

	next := 0 // rank of the next unclaimed unkeyed old child
	for j, c := range new {
		oldIdx[j] = -1
		if !c.HasKey() {
			if next < len(unkeyed) {
				oldIdx[j] = unkeyed[next]
				next++
			}
			continue
		}
		if i, ok := byKey[c.Key]; ok {
			oldIdx[j] = i
			delete(byKey, c.Key) // a second new child with this key is an insert
		}
	}
	return oldIdx
}

func decide(oldLen int, oldIdx []int) []Decision {
	decisions := make([]Decision, 0, len(oldIdx)+oldLen)
	matched := make([]bool, oldLen)
	keep := stableSet(oldIdx)

	for j, i := range oldIdx {
		switch {
		case i < 0:
			decisions = append(decisions, Decision{Op: Insert, Old: -1, New: j})
		case keep[j]:
			matched[i] = true
			decisions = append(decisions, Decision{Op: Keep, Old: i, New: j})
		default:
			matched[i] = true
			decisions = append(decisions, Decision{Op: Move, Old: i, New: j})
		}
	}
	for i, m := range matched {
		if !m {
			decisions = append(decisions, Decision{Op: Remove, Old: i, New: -1})
		}
	}
	return decisions
}

// stableSet marks the new positions whose old index lies on a longest
// strictly increasing subsequence of oldIdx (ignoring -1 entries).
func stableSet(oldIdx []int) []bool {
	keep := make([]bool, len(oldIdx))

	// tails[k] is the position (in oldIdx) of the smallest tail of an
	// increasing run of length k+1; prev links each position to its
	// predecessor on the run.
	tails := make([]int, 0, len(oldIdx))
	prev := make([]int, len(oldIdx))
	for j, v := range oldIdx {
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if oldIdx[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[j] = tails[lo-1]
		} else {
			prev[j] = -1
		}
		if lo == len(tails) {
			tails = append(tails, j)
		} else {
			tails[lo] = j
		}
	}
	if len(tails) == 0 {
		return keep
	}
	for j := tails[len(tails)-1]; j >= 0; j = prev[j] {
		keep[j] = true
	}
	return keep
}

func hasKeys(children []*VNode) bool {
	for _, c := range children {
		if c.HasKey() {
			return true
		}
	}
	return false
}
