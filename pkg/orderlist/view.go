package orderlist

import (
	"fmt"
)

func (l *List[T]) newView(head, tail *Node[T], offset, size int) *List[T] {
	return &List[T]{
		root:   l.root,
		head:   head,
		tail:   tail,
		offset: offset,
		size:   size,
		stamp:  l.root.stamp,
		equal:  l.equal,
	}
}

// View returns a view of count values of l starting at index start. The view
// shares l's nodes; changes through it are visible in l and vice versa, but
// a change made through any other alias makes the view stale.
func (l *List[T]) View(start, count int) (*List[T], error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	if start < 0 || count < 0 || start+count > l.size {
		return nil, fmt.Errorf("view [%d, %d) of %d: %w", start, start+count, l.size, ErrViewRangeInvalid)
	}
	head := l.head
	if start > 0 {
		head = l.nodeAt(start - 1)
	}
	tail := l.tail
	if end := start + count; end < l.size {
		if count < min(end, l.size-end) {
			tail = head.next
			for i := 0; i < count; i++ {
				tail = tail.next
			}
		} else {
			tail = l.nodeAt(end)
		}
	}
	return l.newView(head, tail, l.offset+start, count), nil
}

// ViewOf returns a one-value view of the first value equal to v.
func (l *List[T]) ViewOf(v T) (*List[T], error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	n, i := l.find(v)
	if n == nil {
		return nil, fmt.Errorf("view of: %w", ErrValueNotFound)
	}
	return l.newView(n.prev, n.next, l.offset+i, 1), nil
}

// LastViewOf returns a one-value view of the last value equal to v.
func (l *List[T]) LastViewOf(v T) (*List[T], error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	n, i := l.findLast(v)
	if n == nil {
		return nil, fmt.Errorf("last view of: %w", ErrValueNotFound)
	}
	return l.newView(n.prev, n.next, l.offset+i, 1), nil
}

// IsView reports whether l is a view onto another list.
func (l *List[T]) IsView() bool {
	return l.root != l
}

// IsValid reports whether l can still be used. Roots are always valid.
func (l *List[T]) IsValid() bool {
	return l.check() == nil
}

// Underlying returns the root list of a view, or nil for a root.
func (l *List[T]) Underlying() *List[T] {
	if l.root == l {
		return nil
	}
	return l.root
}

// Offset returns the index of the view's first value in the root list.
func (l *List[T]) Offset() (int, error) {
	if l.root == l {
		return 0, fmt.Errorf("offset: %w", ErrNotAView)
	}
	if err := l.check(); err != nil {
		return 0, err
	}
	return l.offset, nil
}

// Slide moves the view delta positions along the root list, keeping its size.
func (l *List[T]) Slide(delta int) error {
	return l.SlideResize(delta, l.size)
}

// SlideResize moves the view delta positions along the root list and gives
// it size values.
func (l *List[T]) SlideResize(delta, size int) error {
	if l.root == l {
		return fmt.Errorf("slide: %w", ErrNotAView)
	}
	if err := l.check(); err != nil {
		return err
	}
	offset := l.offset + delta
	if offset < 0 || size < 0 || offset+size > l.root.size {
		return fmt.Errorf("slide to [%d, %d) of %d: %w", offset, offset+size, l.root.size, ErrViewRangeInvalid)
	}
	head := l.root.locate(offset-1, l.head, l.offset-1)
	tail := l.root.locate(offset+size, head, offset-1)
	l.head, l.tail, l.offset, l.size = head, tail, offset, size
	return nil
}

// TrySlide is SlideResize that reports failure instead of returning an error.
func (l *List[T]) TrySlide(delta, size int) bool {
	return l.SlideResize(delta, size) == nil
}

// Span returns a view from the start of l to the end of other. Both must be
// valid views of the same list and other must not end before l starts.
func (l *List[T]) Span(other *List[T]) (*List[T], error) {
	if l.root == l || other.root == other {
		return nil, fmt.Errorf("span: %w", ErrNotAView)
	}
	if l.root != other.root {
		return nil, fmt.Errorf("span: %w", ErrForeignNode)
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	if err := other.check(); err != nil {
		return nil, err
	}
	if !precedes(l.head, other.tail) {
		return nil, fmt.Errorf("span: %w", ErrViewRangeInvalid)
	}
	return l.newView(l.head, other.tail, l.offset, other.offset+other.size-l.offset), nil
}

// locate returns the node at root index i, where -1 and size name the head
// and tail sentinels. The walk starts from whichever of the sentinels and the
// hint node (at index hintIndex) is closest.
func (l *List[T]) locate(i int, hint *Node[T], hintIndex int) *Node[T] {
	from, at := l.head, -1
	if d := l.size - i; d < i+1 {
		from, at = l.tail, l.size
	}
	if abs(i-hintIndex) < abs(i-at) {
		from, at = hint, hintIndex
	}
	for ; at < i; at++ {
		from = from.next
	}
	for ; at > i; at-- {
		from = from.prev
	}
	return from
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
