package orderlist

import (
	"errors"
	"fmt"

	"github.com/pliu/orderlist/pkg/utils"
)

// HashedList is a List with set semantics and a value index. Membership,
// lookup, update and removal cost O(1) on average. On a view, a value found
// in the index is only considered present if its node lies inside the view,
// which the labels answer in O(1).
//
// All List methods are available and keep the index in sync; positional
// inserts of a value that is already present fail with ErrDuplicateValue.
type HashedList[T any] struct {
	*List[T]
}

// NewHashed creates an empty hashed list of comparable values.
func NewHashed[T comparable](opts ...Option) *HashedList[T] {
	return NewHashedWithMap[T](
		NewKeyedMap(func(v T) T { return v }),
		func(a, b T) bool { return a == b },
		opts...,
	)
}

// NewHashedFunc creates an empty hashed list whose values are identified by
// key. Two values with the same key are duplicates.
func NewHashedFunc[T any, K comparable](key func(T) K, opts ...Option) *HashedList[T] {
	return NewHashedWithMap[T](
		NewKeyedMap(key),
		func(a, b T) bool { return key(a) == key(b) },
		opts...,
	)
}

// NewHashedWithMap creates an empty hashed list on top of m, which is
// cleared first. equal must agree with m's notion of equality.
func NewHashedWithMap[T any](m ValueMap[T], equal func(a, b T) bool, opts ...Option) *HashedList[T] {
	m.Clear()
	l := New(equal, opts...)
	l.dict = m
	return &HashedList[T]{List: l}
}

func (h *HashedList[T]) lookup(v T) *Node[T] {
	n, ok := h.root.dict.Find(v)
	if !ok || !h.holds(n) {
		return nil
	}
	return n
}

// Add appends v unless an equal value is already present anywhere in the
// underlying list, and reports whether it was added.
func (h *HashedList[T]) Add(v T) (bool, error) {
	if err := h.check(); err != nil {
		return false, err
	}
	if _, err := h.insertBefore(h.tail, v); err != nil {
		if errors.Is(err, ErrDuplicateValue) {
			return false, nil
		}
		return false, fmt.Errorf("add: %w", err)
	}
	return true, nil
}

// AddAll appends every value of vs that is not yet present and returns how
// many were added.
func (h *HashedList[T]) AddAll(vs ...T) (int, error) {
	added := 0
	for _, v := range vs {
		ok, err := h.Add(v)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Find returns the stored value equal to v.
func (h *HashedList[T]) Find(v T) (T, bool, error) {
	var zero T
	if err := h.check(); err != nil {
		return zero, false, err
	}
	if n := h.lookup(v); n != nil {
		return n.value, true, nil
	}
	return zero, false, nil
}

// FindOrAdd returns the stored value equal to v, appending v first if there
// is none. The boolean reports whether a value was found.
func (h *HashedList[T]) FindOrAdd(v T) (T, bool, error) {
	stored, found, err := h.Find(v)
	if err != nil || found {
		return stored, found, err
	}
	if _, err := h.insertBefore(h.tail, v); err != nil {
		return stored, false, fmt.Errorf("find or add: %w", err)
	}
	return v, false, nil
}

// Update replaces the stored value equal to v with v and reports whether
// there was one.
func (h *HashedList[T]) Update(v T) (bool, error) {
	if err := h.check(); err != nil {
		return false, err
	}
	n := h.lookup(v)
	if n == nil {
		return false, nil
	}
	n.value = v
	h.rebind(n)
	h.touch()
	return true, nil
}

// UpdateOrAdd replaces the stored value equal to v, or appends v. It reports
// whether an existing value was updated.
func (h *HashedList[T]) UpdateOrAdd(v T) (bool, error) {
	updated, err := h.Update(v)
	if err != nil || updated {
		return updated, err
	}
	if _, err := h.insertBefore(h.tail, v); err != nil {
		return false, fmt.Errorf("update or add: %w", err)
	}
	return false, nil
}

// Node returns the node holding the value equal to v.
func (h *HashedList[T]) Node(v T) (*Node[T], error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	n := h.lookup(v)
	if n == nil {
		return nil, fmt.Errorf("node: %w", ErrValueNotFound)
	}
	return n, nil
}

// View returns a hashed view of count values starting at start.
func (h *HashedList[T]) View(start, count int) (*HashedList[T], error) {
	v, err := h.List.View(start, count)
	if err != nil {
		return nil, err
	}
	return &HashedList[T]{List: v}, nil
}

// ViewOf returns a one-value hashed view of the value equal to v.
func (h *HashedList[T]) ViewOf(v T) (*HashedList[T], error) {
	view, err := h.List.ViewOf(v)
	if err != nil {
		return nil, err
	}
	return &HashedList[T]{List: view}, nil
}

// LastViewOf is ViewOf; values are unique in a hashed list.
func (h *HashedList[T]) LastViewOf(v T) (*HashedList[T], error) {
	return h.ViewOf(v)
}

// Span returns a hashed view from the start of h to the end of other.
func (h *HashedList[T]) Span(other *HashedList[T]) (*HashedList[T], error) {
	v, err := h.List.Span(other.List)
	if err != nil {
		return nil, err
	}
	return &HashedList[T]{List: v}, nil
}

// Underlying returns the root of a view, or nil for a root.
func (h *HashedList[T]) Underlying() *HashedList[T] {
	if h.root == h.List {
		return nil
	}
	return &HashedList[T]{List: h.root}
}

// sweepIndexed removes the nodes of l whose values are (retain == false) or
// are not (retain == true) among vs. On a root the index is rebuilt over the
// survivors in one pass; a view shares the index with other aliases and
// detaches its nodes one at a time instead.
func (l *List[T]) sweepIndexed(vs []T, retain bool) int {
	d := l.root.dict
	marked := utils.NewSet[*Node[T]]()
	for _, v := range vs {
		if n, ok := d.Find(v); ok && l.holds(n) {
			marked.Add(n)
		}
	}

	if l.root != l {
		if !retain {
			for _, n := range marked.Items() {
				l.removeNode(n)
			}
			return marked.Len()
		}
		removed := 0
		for n := l.head.next; n != l.tail; {
			next := n.next
			if !marked.Contains(n) {
				l.removeNode(n)
				removed++
			}
			n = next
		}
		return removed
	}

	removed := 0
	for n := l.head.next; n != l.tail; {
		next := n.next
		if marked.Contains(n) != retain {
			l.unlink(n)
			removed++
		}
		n = next
	}
	if removed > 0 {
		d.Clear()
		for n := l.head.next; n != l.tail; n = n.next {
			d.InsertOrFind(n.value, n)
		}
	}
	return removed
}
