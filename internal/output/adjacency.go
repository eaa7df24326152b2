package output

import (
	"encoding/json"
	"io"
	"sort"

	. "github.com/psidex/subgraph/internal/lib"
)

// Adjacency writes a JSON object mapping each node name to the sorted names it links
// to. Repeated links collapse, nodes without outgoing links map to an empty list.
type Adjacency struct{}

func (Adjacency) Ext() string { return ".adjacency.json" }

func (Adjacency) Map(src Source) map[string][]string {
	s := src.Snapshot()
	sets := make(map[string]Set, len(s.Nodes))
	for _, n := range s.Nodes {
		sets[n.Name] = NewSet()
	}
	for _, e := range s.Edges {
		sets[s.Nodes[e.Source].Name].Add(s.Nodes[e.Target].Name)
	}

	slicedSets := make(map[string][]string, len(sets))
	for key, value := range sets {
		names := value.AsSlice()
		sort.Strings(names)
		slicedSets[key] = names
	}
	return slicedSets
}

func (a Adjacency) Write(w io.Writer, src Source) error {
	jsonData, err := json.MarshalIndent(a.Map(src), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(jsonData)
	return err
}
