package output

import (
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/psidex/subgraph/internal/render"
)

// PNG rasterises the drawing with gg. Arcs are drawn as circle segments around the
// centre the SVG arc would use.
type PNG struct{}

func (PNG) Ext() string { return ".png" }

func (PNG) Write(w io.Writer, src Source) error {
	s := src.Snapshot()
	dc := gg.NewContext(int(math.Round(s.Width)), int(math.Round(s.Height)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.Push()
	dc.Translate(s.Zoom.X, s.Zoom.Y)
	dc.Scale(s.Zoom.K, s.Zoom.K)

	dc.SetLineWidth(1.5)
	for _, e := range s.Edges {
		from, to := s.Nodes[e.Source].Pos, s.Nodes[e.Target].Pos
		if from == to {
			continue
		}
		c := render.ArcCenter(from, to)
		r := math.Hypot(to.X-from.X, to.Y-from.Y)
		a := math.Atan2(from.Y-c.Y, from.X-c.X)
		dc.SetHexColor(e.Stroke)
		dc.NewSubPath()
		dc.DrawArc(c.X, c.Y, r, a, a+math.Pi/3)
		dc.Stroke()
	}

	for _, n := range s.Nodes {
		dc.DrawCircle(n.Pos.X, n.Pos.Y, n.Subs)
		dc.SetHexColor(n.Fill)
		dc.FillPreserve()
		dc.SetHexColor("#333333")
		dc.Stroke()
	}

	dc.SetRGB(0, 0, 0)
	for _, n := range s.Nodes {
		dc.DrawStringAnchored(n.Name, n.Pos.X, n.Pos.Y, 0, 0.5)
	}
	dc.Pop()

	return dc.EncodePNG(w)
}
