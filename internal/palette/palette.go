// Package palette picks the colours of edges and nodes.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenRatioConjugate = 0.618033988749895

// Scheme is a triadic colour scheme, indexed by link value.
type Scheme [3]colorful.Color

// Triadic returns base and the two colours 120 and 240 degrees around the hue wheel.
func Triadic(base colorful.Color) Scheme {
	h, s, v := base.Hsv()
	var sc Scheme
	for i := range sc {
		sc[i] = colorful.Hsv(math.Mod(h+120*float64(i), 360), s, v)
	}
	return sc
}

// For returns the colour for a link value, values 1 to 3 map to the scheme in order
// and anything else wraps around.
func (sc Scheme) For(value int) colorful.Color {
	i := ((value-1)%3 + 3) % 3
	return sc[i]
}

// Hex is For as a #rrggbb string.
func (sc Scheme) Hex(value int) string {
	return sc.For(value).Hex()
}

// Golden spreads hues by the golden ratio starting from a base hue, at fixed
// saturation and value. Consecutive indices get well separated colours.
type Golden struct {
	hue float64 // in turns, [0, 1)
	s   float64
	v   float64
}

func NewGolden(base colorful.Color, s, v float64) Golden {
	h, _, _ := base.Hsv()
	return Golden{hue: h / 360, s: s, v: v}
}

// At returns the colour of the i-th node.
func (g Golden) At(i int) colorful.Color {
	_, frac := math.Modf(g.hue + float64(i+1)*goldenRatioConjugate)
	return colorful.Hsv(frac*360, g.s, g.v)
}

func (g Golden) Hex(i int) string {
	return g.At(i).Hex()
}

var (
	// Links colours edges by value, from a green base.
	Links = Triadic(colorful.Hsv(145, 0.7, 0.6))
	// Nodes colours circles, starting from light blue.
	Nodes = NewGolden(mustHex("#add8e6"), 0.7, 0.8)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
