package output

import (
	"encoding/json"
	"io"
	"strconv"

	. "github.com/psidex/subgraph/internal/lib"
)

type GraphologyNodeAttributes struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	URL   string  `json:"url"`
}

type GraphologyNode struct {
	Key        string                   `json:"key"`
	Attributes GraphologyNodeAttributes `json:"attributes"`
}

type GraphologyEdgeAttributes struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
	Value int    `json:"value"`
}

type GraphologyEdge struct {
	Key        string                   `json:"key"`
	Source     string                   `json:"source"`
	Target     string                   `json:"target"`
	Attributes GraphologyEdgeAttributes `json:"attributes"`
}

// SerializedGraph is graphology's JSON import format.
type SerializedGraph struct {
	Options struct {
		Type  string `json:"type"`
		Multi bool   `json:"multi"`
	} `json:"options"`
	Nodes []GraphologyNode `json:"nodes"`
	Edges []GraphologyEdge `json:"edges"`
}

// Graphology writes the laid out graph as a serialized graphology graph. Node keys are
// small ints handed out in node order.
type Graphology struct{}

func (Graphology) Ext() string { return ".json" }

func (Graphology) Serialize(src Source) SerializedGraph {
	s := src.Snapshot()
	hasher := NewStrHasher()

	var g SerializedGraph
	g.Options.Type = "directed"
	g.Options.Multi = true
	g.Nodes = make([]GraphologyNode, len(s.Nodes))
	for i, n := range s.Nodes {
		g.Nodes[i] = GraphologyNode{
			Key: strconv.Itoa(hasher.Hash(n.Name)),
			Attributes: GraphologyNodeAttributes{
				X: n.Pos.X, Y: n.Pos.Y, Size: n.Subs,
				Label: n.Name, Color: n.Fill, URL: n.Href,
			},
		}
	}
	g.Edges = make([]GraphologyEdge, len(s.Edges))
	for i, e := range s.Edges {
		g.Edges[i] = GraphologyEdge{
			Key:    e.Key,
			Source: strconv.Itoa(hasher.Hash(s.Nodes[e.Source].Name)),
			Target: strconv.Itoa(hasher.Hash(s.Nodes[e.Target].Name)),
			Attributes: GraphologyEdgeAttributes{
				Size: 2, Color: e.Stroke, Value: e.Value,
			},
		}
	}
	return g
}

func (g Graphology) Write(w io.Writer, src Source) error {
	return json.NewEncoder(w).Encode(g.Serialize(src))
}
