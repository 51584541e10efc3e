package orderlist

// Node is a cell of a List. Nodes are created by insertions and handed out by
// NodeAt and HashedList.Node so that callers can ask order questions with
// List.Precedes. A node handle becomes foreign once its value is removed.
type Node[T any] struct {
	value      T
	prev, next *Node[T]
	tag        int64
	group      *tagGroup[T]
	list       *List[T] // owning root, nil once removed
}

// Value returns the value held by the node.
func (n *Node[T]) Value() T {
	return n.value
}

// tagGroup is a run of consecutive nodes sharing a coarse label. The two
// bound groups belong to the sentinels and carry the extreme labels.
type tagGroup[T any] struct {
	tag         int64
	count       int
	first, last *Node[T]
	bound       bool
}

// precedes orders two linked nodes by (group tag, tag).
func precedes[T any](a, b *Node[T]) bool {
	if a.group.tag != b.group.tag {
		return a.group.tag < b.group.tag
	}
	return a.tag < b.tag
}
