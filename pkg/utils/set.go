package utils

// Set is an unordered collection of distinct comparable items.
type Set[T comparable] struct {
	m map[T]struct{}
}

// NewSet creates a set holding items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{
		m: make(map[T]struct{}, len(items)),
	}
	for _, item := range items {
		s.m[item] = struct{}{}
	}
	return s
}

// Add inserts item and reports whether it was not present before.
func (s *Set[T]) Add(item T) bool {
	if _, ok := s.m[item]; ok {
		return false
	}
	s.m[item] = struct{}{}
	return true
}

func (s *Set[T]) Contains(item T) bool {
	_, ok := s.m[item]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.m)
}

// Items returns a snapshot of the items in no particular order.
func (s *Set[T]) Items() []T {
	items := make([]T, 0, len(s.m))
	for item := range s.m {
		items = append(items, item)
	}
	return items
}
