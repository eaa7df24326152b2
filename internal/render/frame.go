package render

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/psidex/subgraph/internal/palette"
)

// Frame holds the attributes a tick changes, keyed by element key: the "d" of every
// path and the "transform" of every node. Labels share the node transform.
type Frame struct {
	Alpha float64           `json:"alpha"`
	Paths map[string]string `json:"paths"`
	Nodes map[string]string `json:"nodes"`
}

func (r *Renderer) Frame() Frame {
	f := Frame{
		Alpha: r.alpha,
		Paths: make(map[string]string, len(r.edges)),
		Nodes: make(map[string]string, len(r.nodes)),
	}
	for _, e := range r.edges {
		f.Paths[e.Key] = Arc(pos(e.Source), pos(e.Target))
	}
	for _, n := range r.nodes {
		f.Nodes[n.Name] = Translate(n.X, n.Y)
	}
	return f
}

// Snapshot is the drawing in a form that does not depend on the element tree, for
// writers that produce other formats.
type Snapshot struct {
	Width  float64
	Height float64
	Zoom   Transform
	Nodes  []SnapshotNode
	Edges  []SnapshotEdge
}

type SnapshotNode struct {
	Name  string
	Href  string
	Subs  float64
	Adult bool
	Pos   r2.Vec
	Fill  string
}

type SnapshotEdge struct {
	Key    string
	Source int
	Target int
	Value  int
	Stroke string
	Path   string
}

func (r *Renderer) Snapshot() Snapshot {
	s := Snapshot{
		Width:  r.width,
		Height: r.height,
		Zoom:   r.zoom,
		Nodes:  make([]SnapshotNode, len(r.nodes)),
		Edges:  make([]SnapshotEdge, len(r.edges)),
	}
	for i, n := range r.nodes {
		s.Nodes[i] = SnapshotNode{
			Name:  n.Name,
			Href:  r.Href(n.Name),
			Subs:  n.Subs,
			Adult: n.Adult,
			Pos:   r2.Vec{X: n.X, Y: n.Y},
			Fill:  palette.Nodes.Hex(i),
		}
	}
	for i, e := range r.edges {
		s.Edges[i] = SnapshotEdge{
			Key:    e.Key,
			Source: e.SourceIndex,
			Target: e.TargetIndex,
			Value:  e.Value,
			Stroke: palette.Links.Hex(e.Value),
			Path:   Arc(pos(e.Source), pos(e.Target)),
		}
	}
	return s
}
