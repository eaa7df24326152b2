package lib

import (
	"sync"
)

// Set is thread-safe and can be passed by value.
type Set = SetOf[string]

// SetOf is a thread-safe set of comparable values, it can be passed by value.
type SetOf[T comparable] struct {
	data map[T]struct{}
	mu   *sync.RWMutex
}

func NewSet() Set {
	return NewSetOf[string]()
}

func NewSetOf[T comparable](elems ...T) SetOf[T] {
	s := SetOf[T]{
		data: make(map[T]struct{}, len(elems)),
		mu:   &sync.RWMutex{},
	}
	for _, e := range elems {
		s.data[e] = struct{}{}
	}
	return s
}

// Add inserts elem and reports whether it was absent.
func (s SetOf[T]) Add(elem T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[elem]; exists {
		return false
	}
	s.data[elem] = struct{}{}
	return true
}

func (s SetOf[T]) Remove(elem T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, elem)
}

func (s SetOf[T]) Contains(elem T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.data[elem]
	return exists
}

func (s SetOf[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s SetOf[T]) AsSlice() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements := make([]T, 0, len(s.data))
	for elem := range s.data {
		elements = append(elements, elem)
	}

	return elements
}
