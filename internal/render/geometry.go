package render

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Arc is an elliptical arc path from s to t whose radius is the distance between them,
// drawn clockwise so the curve shows the link's direction.
func Arc(s, t r2.Vec) string {
	dr := num(r2.Norm(r2.Sub(t, s)))
	return "M" + num(s.X) + "," + num(s.Y) + "A" + dr + "," + dr + " 0 0,1 " + num(t.X) + "," + num(t.Y)
}

// ArcCenter is the centre of the circle Arc draws. With the radius equal to the chord
// the centre makes an equilateral triangle with both endpoints.
func ArcCenter(s, t r2.Vec) r2.Vec {
	return r2.Rotate(t, math.Pi/3, s)
}

func Translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}

// Transform is a pan and zoom.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

var Identity = Transform{K: 1}

func (t Transform) String() string {
	return "translate(" + num(t.X) + "," + num(t.Y) + ") scale(" + num(t.K) + ")"
}

func (t Transform) Validate() error {
	for _, f := range []float64{t.X, t.Y, t.K} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("zoom %v is not finite", t)
		}
	}
	if t.K <= 0 {
		return fmt.Errorf("zoom scale %v must be positive", t.K)
	}
	return nil
}

// Apply maps a point in drawing coordinates to screen coordinates.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.K, p), r2.Vec{X: t.X, Y: t.Y})
}
