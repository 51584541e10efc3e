// Package orderlist implements an order-maintained doubly-linked list.
//
// Every node carries a label made of its tag group's coarse tag and its own
// fine tag, so the relative position of any two nodes is answered in O(1) by
// List.Precedes without walking the list. Labels are repaired on insertion in
// amortized O(log n) by splitting tag groups and, when the coarse label space
// gets crowded, respacing the groups of a geometrically growing window.
//
// A view (List.View) is a window onto a list that shares its nodes. All
// aliases of a list share one modification stamp. A view whose snapshot of
// the stamp is out of date fails every operation with ErrStaleView.
//
// HashedList adds a value index on top of the list, giving set semantics and
// O(1) average membership, lookup and removal, also through views.
//
// Lists are not safe for concurrent use.
package orderlist

import (
	"fmt"
)

// List is an order-maintained doubly-linked list, or a view onto one.
type List[T any] struct {
	root       *List[T]
	head, tail *Node[T]
	offset     int
	size       int
	stamp      int
	equal      func(a, b T) bool

	// Only set on the root.
	tags *oracle[T]
	dict ValueMap[T]
}

// New creates an empty list that compares values with equal.
func New[T any](equal func(a, b T) bool, opts ...Option) *List[T] {
	l := &List[T]{equal: equal}
	l.root = l
	l.head = &Node[T]{list: l}
	l.tail = &Node[T]{list: l}
	l.head.next, l.tail.prev = l.tail, l.head
	l.tags = newOracle(buildOptions(opts), l.head, l.tail)
	return l
}

// NewComparable creates an empty list of comparable values using ==.
func NewComparable[T comparable](opts ...Option) *List[T] {
	return New(func(a, b T) bool { return a == b }, opts...)
}

// check fails if l is a view that fell behind its root.
func (l *List[T]) check() error {
	if l.root != l && l.stamp != l.root.stamp {
		return ErrStaleView
	}
	return nil
}

// touch records a modification made through l. Every other alias of the
// root goes stale.
func (l *List[T]) touch() {
	l.root.stamp++
	l.stamp = l.root.stamp
}

func (l *List[T]) resize(delta int) {
	l.size += delta
	if l.root != l {
		l.root.size += delta
	}
	l.touch()
}

// nodeAt returns the node at index i of l, walking from the nearer end.
// 0 <= i < l.size must hold.
func (l *List[T]) nodeAt(i int) *Node[T] {
	if i < l.size/2 {
		n := l.head.next
		for ; i > 0; i-- {
			n = n.next
		}
		return n
	}
	n := l.tail.prev
	for j := l.size - 1; j > i; j-- {
		n = n.prev
	}
	return n
}

// holds reports whether n is one of l's nodes, in O(1) using the labels.
func (l *List[T]) holds(n *Node[T]) bool {
	if n == nil || n.list != l.root {
		return false
	}
	if l.root == l || l.size == l.root.size {
		return true
	}
	return precedes(l.head, n) && precedes(n, l.tail)
}

// indexOfNode returns n's index in l by walking outward from n in both
// directions, so the cost is the distance to the nearer end.
func (l *List[T]) indexOfNode(n *Node[T]) int {
	back, fwd := n, n
	for steps := 0; ; steps++ {
		back, fwd = back.prev, fwd.next
		if back == l.head {
			return steps
		}
		if fwd == l.tail {
			return l.size - 1 - steps
		}
	}
}

// find returns the first node of l holding a value equal to v.
func (l *List[T]) find(v T) (*Node[T], int) {
	if l.root.dict != nil {
		n, ok := l.root.dict.Find(v)
		if !ok || !l.holds(n) {
			return nil, -1
		}
		return n, l.indexOfNode(n)
	}
	i := 0
	for n := l.head.next; n != l.tail; n = n.next {
		if l.equal(n.value, v) {
			return n, i
		}
		i++
	}
	return nil, -1
}

// findLast returns the last node of l holding a value equal to v.
func (l *List[T]) findLast(v T) (*Node[T], int) {
	if l.root.dict != nil {
		return l.find(v)
	}
	i := l.size - 1
	for n := l.tail.prev; n != l.head; n = n.prev {
		if l.equal(n.value, v) {
			return n, i
		}
		i--
	}
	return nil, -1
}

// insertBefore links a new node holding v in front of succ, which must be a
// node of l or l's tail boundary.
func (l *List[T]) insertBefore(succ *Node[T], v T) (*Node[T], error) {
	root := l.root
	n := &Node[T]{value: v, list: root}
	if root.dict != nil {
		if _, found := root.dict.InsertOrFind(v, n); found {
			return nil, ErrDuplicateValue
		}
	}
	pred := succ.prev
	n.prev, n.next = pred, succ
	pred.next, succ.prev = n, n
	if err := root.tags.settag(n); err != nil {
		pred.next, succ.prev = succ, pred
		root.tags.leave(n, pred, succ, false)
		if root.dict != nil {
			root.dict.Remove(v)
		}
		n.list = nil
		return nil, err
	}
	root.tags.stats.Inserts++
	l.resize(1)
	return n, nil
}

// unlink removes n from the chain and its tag group without touching the
// value index.
func (l *List[T]) unlink(n *Node[T]) {
	pred, succ := n.prev, n.next
	pred.next, succ.prev = succ, pred
	l.root.tags.leave(n, pred, succ, true)
	l.root.tags.stats.Removals++
	n.prev, n.next, n.list = nil, nil, nil
	l.resize(-1)
}

func (l *List[T]) removeNode(n *Node[T]) T {
	if l.root.dict != nil {
		l.root.dict.Remove(n.value)
	}
	l.unlink(n)
	return n.value
}

// rebind points the value index at n for the value n currently holds.
func (l *List[T]) rebind(n *Node[T]) {
	if d := l.root.dict; d != nil {
		d.Remove(n.value)
		d.InsertOrFind(n.value, n)
	}
}

// Count returns the number of values in l.
func (l *List[T]) Count() (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}
	return l.size, nil
}

// IsEmpty reports whether l holds no values.
func (l *List[T]) IsEmpty() (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	return l.size == 0, nil
}

// First returns the first value of l.
func (l *List[T]) First() (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if l.size == 0 {
		return zero, fmt.Errorf("first: %w", ErrEmptyCollection)
	}
	return l.head.next.value, nil
}

// Last returns the last value of l.
func (l *List[T]) Last() (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if l.size == 0 {
		return zero, fmt.Errorf("last: %w", ErrEmptyCollection)
	}
	return l.tail.prev.value, nil
}

// Get returns the value at index i.
func (l *List[T]) Get(i int) (T, error) {
	n, err := l.NodeAt(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return n.value, nil
}

// NodeAt returns the node at index i.
func (l *List[T]) NodeAt(i int) (*Node[T], error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	if i < 0 || i >= l.size {
		return nil, fmt.Errorf("node at %d of %d: %w", i, l.size, ErrIndexOutOfRange)
	}
	return l.nodeAt(i), nil
}

// Set replaces the value at index i and returns the previous one. On a
// hashed list the new value must not already be held by another node.
func (l *List[T]) Set(i int, v T) (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if i < 0 || i >= l.size {
		return zero, fmt.Errorf("set %d of %d: %w", i, l.size, ErrIndexOutOfRange)
	}
	n := l.nodeAt(i)
	old := n.value
	if d := l.root.dict; d != nil && !l.equal(old, v) {
		if _, found := d.Find(v); found {
			return zero, fmt.Errorf("set %d: %w", i, ErrDuplicateValue)
		}
		d.Remove(old)
		d.InsertOrFind(v, n)
	}
	n.value = v
	l.touch()
	return old, nil
}

// IndexOf returns the index of the first value equal to v, or -1.
func (l *List[T]) IndexOf(v T) (int, error) {
	if err := l.check(); err != nil {
		return -1, err
	}
	_, i := l.find(v)
	return i, nil
}

// LastIndexOf returns the index of the last value equal to v, or -1.
func (l *List[T]) LastIndexOf(v T) (int, error) {
	if err := l.check(); err != nil {
		return -1, err
	}
	_, i := l.findLast(v)
	return i, nil
}

// Contains reports whether l holds a value equal to v.
func (l *List[T]) Contains(v T) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	n, _ := l.find(v)
	return n != nil, nil
}

// Items returns a snapshot of l's values in order.
func (l *List[T]) Items() ([]T, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	items := make([]T, 0, l.size)
	for n := l.head.next; n != l.tail; n = n.next {
		items = append(items, n.value)
	}
	return items, nil
}

// Precedes reports whether a comes before b, in O(1).
func (l *List[T]) Precedes(a, b *Node[T]) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	if a == nil || b == nil || a.list != l.root || b.list != l.root {
		return false, ErrForeignNode
	}
	return precedes(a, b), nil
}

// Stats returns the order oracle's work counters for the root list.
func (l *List[T]) Stats() Stats {
	return l.root.tags.stats
}

// InsertFirst adds v at the front of l.
func (l *List[T]) InsertFirst(v T) error {
	if err := l.check(); err != nil {
		return err
	}
	if _, err := l.insertBefore(l.head.next, v); err != nil {
		return fmt.Errorf("insert first: %w", err)
	}
	return nil
}

// InsertLast adds v at the back of l.
func (l *List[T]) InsertLast(v T) error {
	if err := l.check(); err != nil {
		return err
	}
	if _, err := l.insertBefore(l.tail, v); err != nil {
		return fmt.Errorf("insert last: %w", err)
	}
	return nil
}

// Insert adds v so that it ends up at index i, 0 <= i <= Count.
func (l *List[T]) Insert(i int, v T) error {
	if err := l.check(); err != nil {
		return err
	}
	if i < 0 || i > l.size {
		return fmt.Errorf("insert at %d of %d: %w", i, l.size, ErrIndexOutOfRange)
	}
	succ := l.tail
	if i < l.size {
		succ = l.nodeAt(i)
	}
	if _, err := l.insertBefore(succ, v); err != nil {
		return fmt.Errorf("insert at %d: %w", i, err)
	}
	return nil
}

// InsertAll adds vs in order starting at index i. Either all values are
// inserted or, if one is rejected, none are.
func (l *List[T]) InsertAll(i int, vs ...T) error {
	if err := l.check(); err != nil {
		return err
	}
	if i < 0 || i > l.size {
		return fmt.Errorf("insert all at %d of %d: %w", i, l.size, ErrIndexOutOfRange)
	}
	succ := l.tail
	if i < l.size {
		succ = l.nodeAt(i)
	}
	added := make([]*Node[T], 0, len(vs))
	for _, v := range vs {
		n, err := l.insertBefore(succ, v)
		if err != nil {
			for _, a := range added {
				l.removeNode(a)
			}
			return fmt.Errorf("insert all at %d: %w", i, err)
		}
		added = append(added, n)
	}
	return nil
}

// InsertBefore adds v right before the first value equal to target.
func (l *List[T]) InsertBefore(target, v T) error {
	if err := l.check(); err != nil {
		return err
	}
	n, _ := l.find(target)
	if n == nil {
		return fmt.Errorf("insert before: %w", ErrValueNotFound)
	}
	if _, err := l.insertBefore(n, v); err != nil {
		return fmt.Errorf("insert before: %w", err)
	}
	return nil
}

// InsertAfter adds v right after the first value equal to target.
func (l *List[T]) InsertAfter(target, v T) error {
	if err := l.check(); err != nil {
		return err
	}
	n, _ := l.find(target)
	if n == nil {
		return fmt.Errorf("insert after: %w", ErrValueNotFound)
	}
	if _, err := l.insertBefore(n.next, v); err != nil {
		return fmt.Errorf("insert after: %w", err)
	}
	return nil
}

// RemoveAt removes and returns the value at index i.
func (l *List[T]) RemoveAt(i int) (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if i < 0 || i >= l.size {
		return zero, fmt.Errorf("remove at %d of %d: %w", i, l.size, ErrIndexOutOfRange)
	}
	return l.removeNode(l.nodeAt(i)), nil
}

// RemoveFirst removes and returns the first value.
func (l *List[T]) RemoveFirst() (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if l.size == 0 {
		return zero, fmt.Errorf("remove first: %w", ErrEmptyCollection)
	}
	return l.removeNode(l.head.next), nil
}

// RemoveLast removes and returns the last value.
func (l *List[T]) RemoveLast() (T, error) {
	var zero T
	if err := l.check(); err != nil {
		return zero, err
	}
	if l.size == 0 {
		return zero, fmt.Errorf("remove last: %w", ErrEmptyCollection)
	}
	return l.removeNode(l.tail.prev), nil
}

// Remove removes the first value equal to v and reports whether one was found.
func (l *List[T]) Remove(v T) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	n, _ := l.find(v)
	if n == nil {
		return false, nil
	}
	l.removeNode(n)
	return true, nil
}

// RemoveAll removes every value equal to one of vs and returns how many
// values were removed.
func (l *List[T]) RemoveAll(vs []T) (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}
	if l.root.dict != nil {
		return l.sweepIndexed(vs, false), nil
	}
	return l.sweep(func(v T) bool { return !l.matchesAny(v, vs) }), nil
}

// RetainAll removes every value not equal to one of vs and returns how many
// values were removed.
func (l *List[T]) RetainAll(vs []T) (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}
	if l.root.dict != nil {
		return l.sweepIndexed(vs, true), nil
	}
	return l.sweep(func(v T) bool { return l.matchesAny(v, vs) }), nil
}

func (l *List[T]) matchesAny(v T, vs []T) bool {
	for _, w := range vs {
		if l.equal(v, w) {
			return true
		}
	}
	return false
}

// sweep walks l once and removes every node whose value fails keep.
func (l *List[T]) sweep(keep func(T) bool) int {
	removed := 0
	for n := l.head.next; n != l.tail; {
		next := n.next
		if !keep(n.value) {
			l.removeNode(n)
			removed++
		}
		n = next
	}
	return removed
}

// Clear removes every value of l.
func (l *List[T]) Clear() error {
	if err := l.check(); err != nil {
		return err
	}
	if l.root != l {
		l.sweep(func(T) bool { return false })
		return nil
	}
	for n := l.head.next; n != l.tail; {
		next := n.next
		n.prev, n.next, n.group, n.list = nil, nil, nil, nil
		n = next
	}
	l.head.next, l.tail.prev = l.tail, l.head
	l.tags.stats.Removals += int64(l.size)
	l.tags.stats.Groups = 0
	if l.dict != nil {
		l.dict.Clear()
	}
	l.size = 0
	l.touch()
	return nil
}
