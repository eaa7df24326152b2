// Package force positions graph nodes with a force directed simulation.
//
// Simulation follows the behaviour of the d3 v3 force layout: Verlet integration with
// friction, link springs weighted by node degree, gravity towards the centre of the
// canvas and a charge between all nodes. The charge is approximated with gonum's
// Barnes-Hut plane. Eades wraps gonum's own spring embedder for callers that prefer it.
package force

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	alphaDecay = 0.99
	alphaMin   = 0.005
)

// Config holds the tuning constants of a Simulation.
type Config struct {
	Width  float64 `koanf:"width" json:"width"`
	Height float64 `koanf:"height" json:"height"`

	LinkDistance float64 `koanf:"link_distance" json:"linkDistance"`
	LinkStrength float64 `koanf:"link_strength" json:"linkStrength"`
	// Charge is negative for repulsion.
	Charge   float64 `koanf:"charge" json:"charge"`
	Gravity  float64 `koanf:"gravity" json:"gravity"`
	Friction float64 `koanf:"friction" json:"friction"`
	// Theta is the Barnes-Hut approximation threshold, 0 computes every pair.
	Theta float64 `koanf:"theta" json:"theta"`
	// Alpha is the temperature the simulation starts and resumes at.
	Alpha float64 `koanf:"alpha" json:"alpha"`
}

// DefaultConfig returns the stock d3 constants on a 960x500 canvas.
func DefaultConfig() Config {
	return Config{
		Width:        960,
		Height:       500,
		LinkDistance: 20,
		LinkStrength: 1,
		Charge:       -30,
		Gravity:      0.1,
		Friction:     0.9,
		Theta:        0.8,
		Alpha:        0.1,
	}
}

var ErrConfig = errors.New("invalid force config")

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %vx%v is empty", ErrConfig, c.Width, c.Height)
	case c.LinkDistance < 0:
		return fmt.Errorf("%w: negative link distance", ErrConfig)
	case c.LinkStrength < 0 || c.LinkStrength > 1:
		return fmt.Errorf("%w: link strength %v outside [0, 1]", ErrConfig, c.LinkStrength)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %v outside [0, 1]", ErrConfig, c.Friction)
	case c.Theta < 0:
		return fmt.Errorf("%w: negative theta", ErrConfig)
	case c.Alpha <= alphaMin:
		return fmt.Errorf("%w: alpha must be above %v", ErrConfig, alphaMin)
	}
	return nil
}

// Center is the point gravity pulls towards.
func (c Config) Center() r2.Vec {
	return r2.Vec{X: c.Width / 2, Y: c.Height / 2}
}
