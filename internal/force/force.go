package force

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// Tick is the state after one step of a layout.
type Tick struct {
	Alpha float64
	// Positions holds one entry per node, in node order.
	Positions []r2.Vec
}

// Stepper advances a layout by one tick. ok is false once the layout has settled, the
// returned tick then holds the final positions.
type Stepper interface {
	Step() (t Tick, ok bool)
}

var (
	_ Stepper             = (*Simulation)(nil)
	_ barneshut.Particle2 = (*body)(nil)
	_ barneshut.Force2    = charge
)

// Spring connects two nodes by index.
type Spring struct {
	Source, Target int
}

type body struct {
	pos, prev r2.Vec
	weight    float64
	fixed     bool
}

func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return 1 }

// charge falls off with distance rather than its square, v points from p1 to p2.
func charge(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	d2 := r2.Norm2(v)
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(m2/d2, v)
}

// Simulation is not safe for concurrent use.
type Simulation struct {
	cfg       Config
	rng       *rand.Rand
	bodies    []*body
	particles []barneshut.Particle2
	springs   []Spring
	alpha     float64
}

type Option func(*Simulation)

// WithSeed makes the initial placement of nodes deterministic.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func New(cfg Config, opts ...Option) *Simulation {
	s := &Simulation{cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return s
}

func (s *Simulation) Config() Config {
	return s.cfg
}

// Start binds n nodes and the given springs and restarts the simulation. Nodes that
// already exist keep their position, new ones are placed at random in the canvas.
func (s *Simulation) Start(n int, springs []Spring) {
	if n < len(s.bodies) {
		s.bodies = s.bodies[:n]
	}
	for len(s.bodies) < n {
		p := r2.Vec{X: s.rng.Float64() * s.cfg.Width, Y: s.rng.Float64() * s.cfg.Height}
		s.bodies = append(s.bodies, &body{pos: p, prev: p})
	}
	s.particles = make([]barneshut.Particle2, n)
	for i, b := range s.bodies {
		b.weight = 0
		s.particles[i] = b
	}
	s.springs = append(s.springs[:0], springs...)
	for _, sp := range s.springs {
		s.bodies[sp.Source].weight++
		s.bodies[sp.Target].weight++
	}
	s.Resume()
}

// Place moves node i to p without giving it any velocity.
func (s *Simulation) Place(i int, p r2.Vec) {
	b := s.bodies[i]
	b.pos, b.prev = p, p
}

func (s *Simulation) Resume() {
	s.alpha = s.cfg.Alpha
}

func (s *Simulation) Stop() {
	s.alpha = 0
}

func (s *Simulation) Alpha() float64 {
	return s.alpha
}

func (s *Simulation) Settled() bool {
	return s.alpha < alphaMin
}

func (s *Simulation) Len() int {
	return len(s.bodies)
}

// Fix pins node i at p and reheats the simulation, as a drag does.
func (s *Simulation) Fix(i int, p r2.Vec) {
	b := s.bodies[i]
	b.fixed = true
	b.pos, b.prev = p, p
	s.Resume()
}

// Release unpins node i, it keeps its current position.
func (s *Simulation) Release(i int) {
	s.bodies[i].fixed = false
}

func (s *Simulation) Fixed(i int) bool {
	return s.bodies[i].fixed
}

func (s *Simulation) Position(i int) r2.Vec {
	return s.bodies[i].pos
}

func (s *Simulation) Positions() []r2.Vec {
	ps := make([]r2.Vec, len(s.bodies))
	for i, b := range s.bodies {
		ps[i] = b.pos
	}
	return ps
}

func (s *Simulation) Step() (Tick, bool) {
	if s.alpha *= alphaDecay; s.alpha < alphaMin {
		s.alpha = 0
		return Tick{Positions: s.Positions()}, false
	}
	a := s.alpha

	for _, sp := range s.springs {
		src, dst := s.bodies[sp.Source], s.bodies[sp.Target]
		v := r2.Sub(dst.pos, src.pos)
		d2 := r2.Norm2(v)
		if d2 == 0 {
			continue
		}
		d := math.Sqrt(d2)
		v = r2.Scale(a*s.cfg.LinkStrength*(d-s.cfg.LinkDistance)/d, v)
		k := 0.5
		if w := src.weight + dst.weight; w > 0 {
			k = src.weight / w
		}
		dst.pos = r2.Sub(dst.pos, r2.Scale(k, v))
		src.pos = r2.Add(src.pos, r2.Scale(1-k, v))
	}

	if k := a * s.cfg.Gravity; k != 0 {
		c := s.cfg.Center()
		for _, b := range s.bodies {
			b.pos = r2.Add(b.pos, r2.Scale(k, r2.Sub(c, b.pos)))
		}
	}

	if k := a * s.cfg.Charge; k != 0 && len(s.bodies) > 1 {
		plane, theta := s.plane()
		for _, b := range s.bodies {
			if b.fixed {
				continue
			}
			f := plane.ForceOn(b, theta, charge)
			b.prev = r2.Sub(b.prev, r2.Scale(k, f))
		}
	}

	for _, b := range s.bodies {
		if b.fixed {
			b.pos = b.prev
			continue
		}
		x := b.pos
		b.pos = r2.Sub(x, r2.Scale(s.cfg.Friction, r2.Sub(b.prev, x)))
		b.prev = x
	}

	return Tick{Alpha: a, Positions: s.Positions()}, true
}

// plane falls back to summing every pair when the nodes are too spread out for a
// quadtree.
func (s *Simulation) plane() (*barneshut.Plane, float64) {
	if p, err := barneshut.NewPlane(s.particles); err == nil {
		return p, s.cfg.Theta
	}
	return &barneshut.Plane{Particles: s.particles}, 0
}

// Run steps until the simulation settles or max ticks have been taken, and returns the
// number of ticks taken.
func Run(st Stepper, max int) int {
	n := 0
	for n < max {
		if _, ok := st.Step(); !ok {
			break
		}
		n++
	}
	return n
}
