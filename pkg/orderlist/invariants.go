package orderlist

// CheckInvariants walks the whole underlying list and verifies its links,
// labels, tag group bookkeeping and value index, plus, for a view, that its
// bounds still match its offset and size. Any violation is reported as an
// *InvariantError. It costs O(n) and is meant for tests and diagnostics.
func (l *List[T]) CheckInvariants() error {
	if err := l.check(); err != nil {
		return err
	}
	const op = "check invariants"
	root := l.root

	type tally struct {
		seen  int
		first *Node[T]
		last  *Node[T]
	}
	groups := make(map[*tagGroup[T]]*tally)
	var current *tagGroup[T]

	size := 0
	headIndex, tailIndex := -2, -2
	if l.head == root.head {
		headIndex = -1
	}
	prev := root.head
	for n := root.head.next; ; n = n.next {
		if n == nil {
			return invariantf(op, "chain broken after %d nodes", size)
		}
		if n.prev != prev {
			return invariantf(op, "prev link mismatch at index %d", size)
		}
		if !precedes(prev, n) {
			return invariantf(op, "labels not increasing at index %d", size)
		}
		if n == l.head {
			headIndex = size
		}
		if n == l.tail {
			tailIndex = size
		}
		if n == root.tail {
			break
		}
		if n.list != root {
			return invariantf(op, "node at index %d has the wrong owner", size)
		}
		g := n.group
		if g == nil || g.bound {
			return invariantf(op, "node at index %d has no tag group", size)
		}
		t, ok := groups[g]
		if !ok {
			t = &tally{first: n}
			groups[g] = t
		} else if g != current {
			return invariantf(op, "tag group is not contiguous at index %d", size)
		}
		t.seen++
		t.last = n
		current = g

		if root.dict != nil {
			if m, ok := root.dict.Find(n.value); !ok || m != n {
				return invariantf(op, "value at index %d is not indexed to its node", size)
			}
		}
		prev = n
		size++
	}

	if size != root.size {
		return invariantf(op, "counted %d nodes, size is %d", size, root.size)
	}
	if root.dict != nil && root.dict.Len() != size {
		return invariantf(op, "value index holds %d entries for %d nodes", root.dict.Len(), size)
	}
	for g, t := range groups {
		if g.count != t.seen || g.first != t.first || g.last != t.last {
			return invariantf(op, "tag group bookkeeping is off: count %d, seen %d", g.count, t.seen)
		}
	}
	if len(groups) != root.tags.stats.Groups {
		return invariantf(op, "found %d live tag groups, expected %d", len(groups), root.tags.stats.Groups)
	}

	if l != root {
		if headIndex != l.offset-1 || tailIndex != l.offset+l.size {
			return invariantf(op, "view bounds at %d and %d do not match offset %d and size %d",
				headIndex, tailIndex, l.offset, l.size)
		}
	}
	return nil
}
