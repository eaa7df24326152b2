package graph

// Resolve turns the index based links into edges holding node references. It makes one
// pass in list order and leaves links untouched, so the same records can be resolved
// again against a different node slice.
func Resolve(nodes []Node, links []Link) ([]Edge, error) {
	if err := Validate(nodes, links); err != nil {
		return nil, err
	}
	keys := LinkKeys(links)
	edges := make([]Edge, len(links))
	for i, l := range links {
		edges[i] = Edge{
			Key:         keys[i],
			Source:      &nodes[l.Source],
			Target:      &nodes[l.Target],
			SourceIndex: l.Source,
			TargetIndex: l.Target,
			Value:       l.Value,
		}
	}
	return edges, nil
}

// Degrees counts the links touching each node, a self loop counts twice.
func Degrees(n int, links []Link) []int {
	deg := make([]int, n)
	for _, l := range links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}

// Index maps node names to their position in nodes.
func Index(nodes []Node) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.Name] = i
	}
	return idx
}
