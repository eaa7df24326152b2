// Package render draws a graph as an SVG element tree and keeps it in step with a
// force simulation.
package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"golang.org/x/net/html"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/psidex/subgraph/internal/force"
	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/palette"
	"github.com/psidex/subgraph/internal/scene"
)

type State int

const (
	Configuring State = iota
	Simulating
	Settled
)

func (s State) String() string {
	switch s {
	case Configuring:
		return "configuring"
	case Simulating:
		return "simulating"
	case Settled:
		return "settled"
	}
	return "unknown"
}

var (
	ErrNotRendered = errors.New("graph has not been rendered")
	ErrNoNode      = errors.New("no such node")
	ErrTick        = errors.New("tick does not match the graph")
)

// Renderer owns one drawing: its element tree, its layers and its simulation. It is
// not safe for concurrent use.
type Renderer struct {
	opts   Options
	log    *slog.Logger
	width  float64
	height float64

	container *html.Node
	svg       *html.Node
	root      *html.Node
	paths     *scene.Layer
	circles   *scene.Layer
	labels    *scene.Layer

	nodes []graph.Node
	links []graph.Link
	edges []graph.Edge
	sim   *force.Simulation
	state State
	alpha float64
	zoom  Transform
	ticks int
}

// New returns a Renderer with an empty container element.
func New(opts Options) *Renderer {
	if opts.ContainerID == "" {
		opts.ContainerID = DefaultContainerID
	}
	if opts.LinkTemplate == "" {
		opts.LinkTemplate = DefaultLinkTemplate
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	w, h := opts.Viewport.Surface()
	return &Renderer{
		opts:      opts,
		log:       l,
		width:     w,
		height:    h,
		container: scene.El("div", "id", opts.ContainerID),
		zoom:      Identity,
	}
}

// Render draws data into a new <svg> inside the container, replacing any previous
// drawing, and starts the simulation. data is copied, positions are kept by the
// renderer and reported through Snapshot.
func (r *Renderer) Render(data graph.Data) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if r.svg != nil {
		scene.Remove(r.svg)
	}
	r.state = Configuring
	r.ticks = 0
	r.zoom = Identity
	r.nodes = append([]graph.Node(nil), data.Nodes...)

	cfg := r.opts.Force
	cfg.Width, cfg.Height = r.width, r.height
	var simOpts []force.Option
	if r.opts.Seed != 0 {
		simOpts = append(simOpts, force.WithSeed(r.opts.Seed))
	}
	r.sim = force.New(cfg, simOpts...)
	r.sim.Start(len(r.nodes), nil)
	for i, n := range r.nodes {
		if n.X != 0 || n.Y != 0 {
			r.sim.Place(i, r2.Vec{X: n.X, Y: n.Y})
		}
	}

	m := num(math.Min(r.width, r.height))
	half := num(math.Min(r.width, r.height) / 2)
	r.svg = scene.Append(r.container, scene.El("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"xmlns:xlink", "http://www.w3.org/1999/xlink",
		"width", num(r.width),
		"height", num(r.height),
		"viewBox", "0 0 "+m+" "+m,
		"preserveAspectRatio", "xMinYMin",
		"transform", "translate("+half+","+half+")",
		"style", "border: 1px solid black",
	))
	r.root = scene.Append(r.svg, scene.El("g", "class", "zoom", "transform", r.zoom.String()))
	scene.Append(r.root, scene.El("view", "id", "view", "viewBox", "500 500 1000 1000"))
	r.paths = scene.NewLayer(r.root, "path", "class", "links")
	r.circles = scene.NewLayer(r.root, "circle", "class", "nodes")
	r.labels = scene.NewLayer(r.root, "text", "class", "labels")

	return r.Update(data.Links)
}

// Update reconciles the drawing with a new link list and restarts the simulation.
// Paths are joined by link key, circles and labels by node name.
func (r *Renderer) Update(links []graph.Link) error {
	if r.svg == nil {
		return ErrNotRendered
	}
	edges, err := graph.Resolve(r.nodes, links)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	r.links = append(r.links[:0], links...)
	r.edges = edges

	springs := make([]force.Spring, len(edges))
	keys := make([]string, len(edges))
	for i, e := range edges {
		springs[i] = force.Spring{Source: e.SourceIndex, Target: e.TargetIndex}
		keys[i] = e.Key
	}
	r.sim.Start(len(r.nodes), springs)

	sel := r.paths.Join(keys)
	for _, b := range sel.Enter {
		scene.SetAttr(b.El, "class", "link")
		scene.SetAttr(b.El, "style", "stroke: "+palette.Links.Hex(edges[b.Index].Value))
		scene.SetAttr(b.El, "marker-end", "")
	}

	names := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		names[i] = n.Name
	}
	csel := r.circles.Join(names)
	for _, b := range append(csel.Enter, csel.Update...) {
		n := r.nodes[b.Index]
		scene.SetAttr(b.El, "r", num(n.Subs))
		scene.SetAttr(b.El, "is", "node-"+n.Name)
		scene.SetAttr(b.El, "style", "fill: "+palette.Nodes.Hex(b.Index))
	}

	tsel := r.labels.Join(names)
	for _, b := range tsel.Enter {
		scene.Append(b.El, scene.El("a", "target", "_blank"))
	}
	for _, b := range append(tsel.Enter, tsel.Update...) {
		n := r.nodes[b.Index]
		scene.SetAttr(b.El, "x", "0")
		scene.SetAttr(b.El, "y", ".31em")
		a := b.El.FirstChild
		scene.SetAttr(a, "xlink:href", r.Href(n.Name))
		scene.SetText(a, n.Name)
	}

	r.log.Debug("graph updated",
		"nodes", len(r.nodes),
		"links", len(edges),
		"entered", len(sel.Enter),
		"exited", len(sel.Exit),
	)
	r.state = Simulating
	r.apply(force.Tick{Alpha: r.sim.Alpha(), Positions: r.sim.Positions()})
	return nil
}

// Href is the hyperlink of the node called name.
func (r *Renderer) Href(name string) string {
	return fmt.Sprintf(r.opts.LinkTemplate, name)
}

// Tick moves every element to the positions in t. It is how the render loop and tests
// feed ticks that did not come from the renderer's own simulation.
func (r *Renderer) Tick(t force.Tick) error {
	if r.svg == nil {
		return ErrNotRendered
	}
	if len(t.Positions) != len(r.nodes) {
		return fmt.Errorf("%w: %d positions for %d nodes", ErrTick, len(t.Positions), len(r.nodes))
	}
	r.apply(t)
	return nil
}

func (r *Renderer) apply(t force.Tick) {
	r.alpha = t.Alpha
	for i, p := range t.Positions {
		r.nodes[i].X, r.nodes[i].Y = p.X, p.Y
	}
	for _, e := range r.edges {
		if el, ok := r.paths.Get(e.Key); ok {
			scene.SetAttr(el, "d", Arc(pos(e.Source), pos(e.Target)))
		}
	}
	for _, n := range r.nodes {
		tr := Translate(n.X, n.Y)
		if el, ok := r.circles.Get(n.Name); ok {
			scene.SetAttr(el, "transform", tr)
		}
		if el, ok := r.labels.Get(n.Name); ok {
			scene.SetAttr(el, "transform", tr)
		}
	}
}

// Step advances the simulation by one tick and redraws. It returns false once the
// simulation has settled.
func (r *Renderer) Step() bool {
	if r.sim == nil || r.state == Settled {
		return false
	}
	t, ok := r.sim.Step()
	if !ok {
		r.state = Settled
		r.log.Debug("graph settled", "ticks", r.ticks)
		return false
	}
	r.ticks++
	r.apply(t)
	return true
}

// Settle steps until the simulation settles or max ticks have been taken, and returns
// the number of ticks taken.
func (r *Renderer) Settle(max int) int {
	n := 0
	for n < max && r.Step() {
		n++
	}
	return n
}

// Zoom sets the pan and zoom of the root drawing group.
func (r *Renderer) Zoom(tx, ty, k float64) error {
	if r.svg == nil {
		return ErrNotRendered
	}
	t := Transform{X: tx, Y: ty, K: k}
	if err := t.Validate(); err != nil {
		return err
	}
	r.zoom = t
	scene.SetAttr(r.root, "transform", t.String())
	return nil
}

// DragStart pins node i at (x, y) and reheats the simulation.
func (r *Renderer) DragStart(i int, x, y float64) error {
	return r.drag(i, x, y)
}

// DragMove moves the pinned node i to (x, y).
func (r *Renderer) DragMove(i int, x, y float64) error {
	return r.drag(i, x, y)
}

// DragEnd moves node i to (x, y) and lets the simulation move it again.
func (r *Renderer) DragEnd(i int, x, y float64) error {
	if err := r.drag(i, x, y); err != nil {
		return err
	}
	r.sim.Release(i)
	return nil
}

func (r *Renderer) drag(i int, x, y float64) error {
	if r.sim == nil {
		return ErrNotRendered
	}
	if i < 0 || i >= len(r.nodes) {
		return fmt.Errorf("%w: %d", ErrNoNode, i)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("drag to (%v, %v)", x, y)
	}
	r.sim.Fix(i, r2.Vec{X: x, Y: y})
	r.state = Simulating
	r.apply(force.Tick{Alpha: r.sim.Alpha(), Positions: r.sim.Positions()})
	return nil
}

// NodeIndex returns the index of the node called name.
func (r *Renderer) NodeIndex(name string) (int, bool) {
	for i, n := range r.nodes {
		if n.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (r *Renderer) State() State {
	return r.state
}

func (r *Renderer) Alpha() float64 {
	return r.alpha
}

// Transform is the current pan and zoom.
func (r *Renderer) Transform() Transform {
	return r.zoom
}

// Ticks is the number of simulation ticks applied since Render.
func (r *Renderer) Ticks() int {
	return r.ticks
}

// Simulation is the renderer's own layout, for callers that drive it with a Loop.
func (r *Renderer) Simulation() *force.Simulation {
	return r.sim
}

// Size is the drawing surface.
func (r *Renderer) Size() (width, height float64) {
	return r.width, r.height
}

// Document is the container element, including the drawing once rendered.
func (r *Renderer) Document() *html.Node {
	return r.container
}

// SVG is the drawing element, nil before Render.
func (r *Renderer) SVG() *html.Node {
	return r.svg
}

// WriteTo writes the container element as markup.
func (r *Renderer) WriteTo(w io.Writer) (int64, error) {
	s, err := scene.Markup(r.container)
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, s)
	return int64(n), err
}

func pos(n *graph.Node) r2.Vec {
	return r2.Vec{X: n.X, Y: n.Y}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
