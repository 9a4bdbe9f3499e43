// Package set provides a minimal generic set, used by the data-flow
// analysis in BatchMetadataBuilder to track available-output and
// externally-required field names.
package set

// Set is an unordered collection of unique comparable values.
type Set[T comparable] struct {
	set map[T]struct{}
}

// Insert adds k to the set.
func (s *Set[T]) Insert(k T) {
	if s.set == nil {
		s.set = make(map[T]struct{})
	}
	s.set[k] = struct{}{}
}

// Contains reports whether k is in the set.
func (s *Set[T]) Contains(k T) bool {
	_, ok := s.set[k]
	return ok
}

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int {
	return len(s.set)
}

// Keys returns the set's elements in unspecified order.
func (s *Set[T]) Keys() []T {
	keys := make([]T, 0, len(s.set))
	for k := range s.set {
		keys = append(keys, k)
	}
	return keys
}
