package orderlist

import (
	"fmt"
)

// Rand is the random source used by Shuffle. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// IsSorted reports whether l is ordered by cmp.
func (l *List[T]) IsSorted(cmp func(a, b T) int) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	for n := l.head.next; n != l.tail && n.next != l.tail; n = n.next {
		if cmp(n.value, n.next.value) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// Sort orders l by cmp with a stable natural merge sort over the nodes. Nodes
// keep their values, so node handles and the value index stay valid. The
// labels stay where they were in the sequence and are handed to the nodes in
// their new order, so no relabelling is needed.
func (l *List[T]) Sort(cmp func(a, b T) int) error {
	if err := l.check(); err != nil {
		return err
	}
	if l.size < 2 {
		return nil
	}

	type slot struct {
		group       *tagGroup[T]
		tag         int64
		first, last bool
	}
	slots := make([]slot, 0, l.size)
	var run, prev *Node[T]
	for n := l.head.next; n != l.tail; n = n.next {
		g := n.group
		slots = append(slots, slot{group: g, tag: n.tag, first: g.first == n, last: g.last == n})
		if prev == nil {
			run = n
		} else {
			prev.next = n
		}
		prev = n
	}
	prev.next = nil

	run = mergeSort(run, cmp)

	at := l.head
	i := 0
	for n := run; n != nil; i++ {
		next := n.next
		s := slots[i]
		n.prev, at.next = at, n
		n.group, n.tag = s.group, s.tag
		if s.first {
			s.group.first = n
		}
		if s.last {
			s.group.last = n
		}
		at = n
		n = next
	}
	at.next, l.tail.prev = l.tail, at
	l.touch()
	return nil
}

// mergeSort sorts a nil-terminated run linked through next. Each pass merges
// adjacent ascending runs pairwise until a single run is left.
func mergeSort[T any](head *Node[T], cmp func(a, b T) int) *Node[T] {
	for {
		var out, outTail *Node[T]
		runs := 0
		for head != nil {
			a := head
			aEnd := runEnd(a, cmp)
			b := aEnd.next
			aEnd.next = nil
			var rest *Node[T]
			if b != nil {
				bEnd := runEnd(b, cmp)
				rest = bEnd.next
				bEnd.next = nil
			}
			merged, mergedTail := mergeRuns(a, b, cmp)
			if out == nil {
				out = merged
			} else {
				outTail.next = merged
			}
			outTail = mergedTail
			head = rest
			runs++
		}
		if runs <= 1 {
			return out
		}
		head = out
	}
}

func runEnd[T any](n *Node[T], cmp func(a, b T) int) *Node[T] {
	for n.next != nil && cmp(n.value, n.next.value) <= 0 {
		n = n.next
	}
	return n
}

// mergeRuns merges two sorted runs, taking from a on ties.
func mergeRuns[T any](a, b *Node[T], cmp func(a, b T) int) (*Node[T], *Node[T]) {
	var head, tail *Node[T]
	push := func(n *Node[T]) {
		if head == nil {
			head = n
		} else {
			tail.next = n
		}
		tail = n
	}
	for a != nil && b != nil {
		if cmp(a.value, b.value) <= 0 {
			n := a
			a = a.next
			push(n)
		} else {
			n := b
			b = b.next
			push(n)
		}
	}
	for _, r := range []*Node[T]{a, b} {
		for r != nil {
			n := r
			r = r.next
			push(n)
		}
	}
	tail.next = nil
	return head, tail
}

// Reverse reverses the order of l's values.
func (l *List[T]) Reverse() error {
	if err := l.check(); err != nil {
		return err
	}
	l.reverse(l.head.next, l.tail.prev, l.size)
	return nil
}

// ReverseRange reverses count values starting at index start.
func (l *List[T]) ReverseRange(start, count int) error {
	if err := l.check(); err != nil {
		return err
	}
	if start < 0 || count < 0 || start+count > l.size {
		return fmt.Errorf("reverse [%d, %d) of %d: %w", start, start+count, l.size, ErrIndexOutOfRange)
	}
	if count < 2 {
		return nil
	}
	a := l.nodeAt(start)
	b := a
	if count-1 < l.size/2 {
		for i := 1; i < count; i++ {
			b = b.next
		}
	} else {
		b = l.nodeAt(start + count - 1)
	}
	l.reverse(a, b, count)
	return nil
}

// reverse swaps values walking inward from a and b, which bound count nodes.
func (l *List[T]) reverse(a, b *Node[T], count int) {
	for i := 0; i < count/2; i++ {
		a.value, b.value = b.value, a.value
		l.rebind(a)
		l.rebind(b)
		a, b = a.next, b.prev
	}
	l.touch()
}

// Shuffle permutes l's values uniformly at random using rng.
func (l *List[T]) Shuffle(rng Rand) error {
	items, err := l.Items()
	if err != nil {
		return err
	}
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	i := 0
	for n := l.head.next; n != l.tail; n = n.next {
		n.value = items[i]
		i++
	}
	if l.root.dict != nil {
		for n := l.head.next; n != l.tail; n = n.next {
			l.rebind(n)
		}
	}
	l.touch()
	return nil
}
