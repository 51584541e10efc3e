package orderlist

import (
	"iter"
)

// ValueMap is the index a HashedList keeps from values to the nodes holding
// them. Implementations decide which values count as equal.
type ValueMap[T any] interface {
	// Find returns the node bound to v.
	Find(v T) (*Node[T], bool)
	// InsertOrFind binds v to n unless v is already bound, in which case the
	// existing node is returned with true.
	InsertOrFind(v T, n *Node[T]) (*Node[T], bool)
	// Remove unbinds v and returns the node it was bound to.
	Remove(v T) (*Node[T], bool)
	Len() int
	Clear()
	All() iter.Seq2[T, *Node[T]]
}

// KeyedMap is a ValueMap backed by a Go map over a key derived from each value.
type KeyedMap[T any, K comparable] struct {
	key func(T) K
	m   map[K]*Node[T]
}

// NewKeyedMap returns an empty KeyedMap that identifies values by key.
func NewKeyedMap[T any, K comparable](key func(T) K) *KeyedMap[T, K] {
	return &KeyedMap[T, K]{
		key: key,
		m:   make(map[K]*Node[T]),
	}
}

func (km *KeyedMap[T, K]) Find(v T) (*Node[T], bool) {
	n, ok := km.m[km.key(v)]
	return n, ok
}

func (km *KeyedMap[T, K]) InsertOrFind(v T, n *Node[T]) (*Node[T], bool) {
	k := km.key(v)
	if existing, ok := km.m[k]; ok {
		return existing, true
	}
	km.m[k] = n
	return nil, false
}

func (km *KeyedMap[T, K]) Remove(v T) (*Node[T], bool) {
	k := km.key(v)
	n, ok := km.m[k]
	if ok {
		delete(km.m, k)
	}
	return n, ok
}

func (km *KeyedMap[T, K]) Len() int {
	return len(km.m)
}

func (km *KeyedMap[T, K]) Clear() {
	clear(km.m)
}

// All yields every bound value with its node, in no particular order.
func (km *KeyedMap[T, K]) All() iter.Seq2[T, *Node[T]] {
	return func(yield func(T, *Node[T]) bool) {
		for _, n := range km.m {
			if !yield(n.value, n) {
				return
			}
		}
	}
}
