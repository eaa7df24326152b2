package output

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/psidex/subgraph/internal/render"
)

// SVG writes a standalone SVG file with svgo. Circle radii and label positions are
// rounded to whole pixels, arc paths keep full precision.
type SVG struct{}

func (SVG) Ext() string { return ".svg" }

func (SVG) Write(w io.Writer, src Source) error {
	s := src.Snapshot()
	canvas := svg.New(w)
	canvas.Start(int(math.Round(s.Width)), int(math.Round(s.Height)), `style="border: 1px solid black"`)
	canvas.Title("subgraph")
	canvas.Rect(0, 0, int(math.Round(s.Width)), int(math.Round(s.Height)), "fill:white")
	canvas.Gtransform(s.Zoom.String())

	canvas.Group(`class="links"`, "fill:none;stroke-width:1.5px")
	for _, e := range s.Edges {
		canvas.Path(e.Path, `class="link"`, fmt.Sprintf(`stroke="%s"`, e.Stroke))
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`, "stroke:#333;stroke-width:1.5px")
	for _, n := range s.Nodes {
		canvas.Gtransform(render.Translate(n.Pos.X, n.Pos.Y))
		canvas.Circle(0, 0, int(math.Round(n.Subs)), fmt.Sprintf(`fill="%s"`, n.Fill))
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Group(`class="labels"`, "font:10px sans-serif")
	for _, n := range s.Nodes {
		canvas.Gtransform(render.Translate(n.Pos.X, n.Pos.Y))
		canvas.Link(n.Href, n.Name)
		canvas.Text(0, 0, n.Name, `dy=".31em"`)
		canvas.LinkEnd()
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return nil
}
