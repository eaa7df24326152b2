package lib

import "sync"

// StrHasher gives a stable int id to each unique string, in order of first sight. It
// stores a map of [string]int rather than hashing, so ids are dense and start at 1.
type StrHasher struct {
	mu      *sync.Mutex
	ids     map[string]int
	counter int
}

func NewStrHasher() *StrHasher {
	return &StrHasher{
		mu:  &sync.Mutex{},
		ids: make(map[string]int),
	}
}

// Hash returns the id for str, allocating one if it has not been seen.
func (s *StrHasher) Hash(str string) (id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if id, ok = s.ids[str]; !ok {
		id = s.counter + 1
		s.counter = id
		s.ids[str] = id
	}
	return id
}

// Len is the number of ids handed out.
func (s *StrHasher) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}
