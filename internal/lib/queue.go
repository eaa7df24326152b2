package lib

import (
	"sync"
)

// Queue is thread-safe and should be held as a pointer.
type Queue[T any] struct {
	items []T
	mu    *sync.RWMutex
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		items: []T{},
		mu:    &sync.RWMutex{},
	}
}

func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Dequeue pops from the front of the queue (FIFO), ok is false when it is empty.
func (q *Queue[T]) Dequeue() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return item, false
	}

	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *Queue[T]) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}
