package frontier

import (
	"sync"

	. "github.com/psidex/subgraph/internal/lib"
)

// Item is a queued node name and the number of hops still allowed from it.
type Item struct {
	Name  string
	Depth int
}

type Frontier struct {
	queue *Queue[Item]
	// visitedMu keeps the visited check and the dequeue atomic, the same name can sit in
	// the queue twice when it is reached from two nodes before either copy is popped.
	visitedMu *sync.Mutex
	visited   Set
}

func New() Frontier {
	return Frontier{
		queue:     NewQueue[Item](),
		visitedMu: &sync.Mutex{},
		visited:   NewSet(),
	}
}

// Add queues name with the given depth, returns false if it has already been visited.
// Callers add in order of non-increasing depth, so the first visit of a name carries
// its largest depth.
func (f Frontier) Add(name string, depth int) bool {
	f.visitedMu.Lock()
	defer f.visitedMu.Unlock()
	if f.visited.Contains(name) {
		return false
	}
	f.queue.Enqueue(Item{Name: name, Depth: depth})
	return true
}

// Pop returns the next unvisited item in FIFO order and marks it visited.
func (f Frontier) Pop() (Item, bool) {
	f.visitedMu.Lock()
	defer f.visitedMu.Unlock()
	for {
		item, ok := f.queue.Dequeue()
		if !ok {
			return Item{}, false
		}
		if f.visited.Contains(item.Name) {
			continue
		}
		f.visited.Add(item.Name)
		return item, true
	}
}

// Visited reports whether name has been popped.
func (f Frontier) Visited(name string) bool {
	return f.visited.Contains(name)
}

// Size returns the size of the frontier, not accounting for entries that may have
// already been visited.
func (f Frontier) Size() int {
	return f.queue.Size()
}
