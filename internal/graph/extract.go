package graph

import (
	"fmt"
	"strings"

	"github.com/psidex/subgraph/internal/frontier"
)

// MaxDepth is the deepest neighbourhood Extract will walk.
const MaxDepth = 3

// Query selects the neighbourhood of a seed node.
type Query struct {
	Seed  string `json:"seed"`
	Depth int    `json:"depth"`
	// NSFW keeps adult nodes when set.
	NSFW    bool    `json:"nsfw"`
	MinSubs float64 `json:"minSubs"`
}

// ClampDepth limits depth to [1, MaxDepth].
func ClampDepth(depth int) int {
	return min(max(depth, 1), MaxDepth)
}

// Extract returns the subgraph around q.Seed. Outgoing links are followed for q.Depth
// hops from the seed, and every node linking to the seed is followed outwards for one
// hop less. Each (source, target) pair appears once. The seed is matched without regard
// to case and is always part of the result, filtered nodes are neither included nor
// walked through.
func Extract(d Data, q Query) (Data, error) {
	if err := d.Validate(); err != nil {
		return Data{}, err
	}

	seed := -1
	for i, n := range d.Nodes {
		if strings.EqualFold(n.Name, q.Seed) {
			seed = i
			break
		}
	}
	if seed < 0 {
		return Data{}, fmt.Errorf("%w: %q", ErrUnknownSeed, q.Seed)
	}

	depth := ClampDepth(q.Depth)
	index := Index(d.Nodes)
	down := make([][]int, len(d.Nodes))
	var parents []int
	for li, l := range d.Links {
		down[l.Source] = append(down[l.Source], li)
		if l.Target == seed {
			parents = append(parents, l.Source)
		}
	}

	keep := func(i int) bool {
		if i == seed {
			return true
		}
		n := d.Nodes[i]
		return (q.NSFW || !n.Adult) && n.Subs >= q.MinSubs
	}

	var out Data
	remap := make(map[int]int)
	include := func(i int) int {
		if j, ok := remap[i]; ok {
			return j
		}
		n := d.Nodes[i]
		n.X, n.Y, n.Fixed = 0, 0, false
		out.Nodes = append(out.Nodes, n)
		remap[i] = len(out.Nodes) - 1
		return remap[i]
	}
	include(seed)

	f := frontier.New()
	f.Add(d.Nodes[seed].Name, depth)
	if depth > 1 {
		for _, p := range parents {
			if keep(p) {
				f.Add(d.Nodes[p].Name, depth-1)
			}
		}
	}

	edges := make(map[[2]int]struct{})
	for {
		item, ok := f.Pop()
		if !ok {
			break
		}
		src := index[item.Name]
		for _, li := range down[src] {
			l := d.Links[li]
			if !keep(l.Target) {
				continue
			}
			pair := [2]int{l.Source, l.Target}
			if _, seen := edges[pair]; !seen {
				edges[pair] = struct{}{}
				out.Links = append(out.Links, Link{
					Source: include(l.Source),
					Target: include(l.Target),
					Value:  l.Value,
				})
			}
			if item.Depth > 1 {
				f.Add(d.Nodes[l.Target].Name, item.Depth-1)
			}
		}
	}
	return out, nil
}
