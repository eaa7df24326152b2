package force

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ Stepper = (*Eades)(nil)

// EadesConfig tunes gonum's Eades spring embedder.
type EadesConfig struct {
	Updates   int     `koanf:"updates" json:"updates"`
	Repulsion float64 `koanf:"repulsion" json:"repulsion"`
	Rate      float64 `koanf:"rate" json:"rate"`
	Theta     float64 `koanf:"theta" json:"theta"`
}

func DefaultEadesConfig() EadesConfig {
	return EadesConfig{Updates: 300, Repulsion: 1, Rate: 0.05, Theta: 0.2}
}

// Eades lays nodes out with layout.EadesR2 and scales the result into the canvas.
// Self loops and parallel springs collapse into single undirected edges.
type Eades struct {
	cfg   Config
	n     int
	total int
	left  int
	opt   layout.OptimizerR2
}

func NewEades(cfg Config, ecfg EadesConfig, n int, springs []Spring, seed uint64) *Eades {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, sp := range springs {
		if sp.Source == sp.Target {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(sp.Source), simple.Node(sp.Target)))
	}
	eades := &layout.EadesR2{
		Updates:   ecfg.Updates,
		Repulsion: ecfg.Repulsion,
		Rate:      ecfg.Rate,
		Theta:     ecfg.Theta,
		Src:       rand.NewSource(seed),
	}
	return &Eades{
		cfg:   cfg,
		n:     n,
		total: ecfg.Updates,
		left:  ecfg.Updates,
		opt:   layout.NewOptimizerR2(g, eades.Update),
	}
}

func (e *Eades) Step() (Tick, bool) {
	if e.left <= 0 || e.n == 0 {
		return Tick{Positions: e.positions()}, false
	}
	e.left--
	if !e.opt.Update() {
		e.left = 0
		return Tick{Positions: e.positions()}, false
	}
	alpha := e.cfg.Alpha * float64(e.left) / float64(e.total)
	return Tick{Alpha: alpha, Positions: e.positions()}, true
}

// positions fits the embedder's coordinates into the canvas keeping their aspect.
func (e *Eades) positions() []r2.Vec {
	ps := make([]r2.Vec, e.n)
	if e.n == 0 {
		return ps
	}
	lo := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for i := range ps {
		p := e.opt.Coord2(int64(i))
		ps[i] = p
		lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}

	const margin = 0.1
	span := r2.Sub(hi, lo)
	scale := math.Min(e.cfg.Width, e.cfg.Height) * (1 - 2*margin)
	if m := math.Max(span.X, span.Y); m > 0 {
		scale /= m
	} else {
		scale = 0
	}
	mid := r2.Scale(0.5, r2.Add(lo, hi))
	c := e.cfg.Center()
	for i, p := range ps {
		ps[i] = r2.Add(c, r2.Scale(scale, r2.Sub(p, mid)))
	}
	return ps
}
