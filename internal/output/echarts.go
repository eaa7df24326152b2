package output

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/subgraph/internal/render"
)

// ECharts writes a go-echarts page. Nodes start at their laid out positions and the
// browser keeps running echarts' own force layout with the same tuning.
type ECharts struct {
	Title string
	// Force tunes echarts' layout, DefaultEChartsForce is used when nil.
	Force *opts.GraphForce
}

// DefaultEChartsForce mirrors the renderer's link distance, charge and gravity.
func DefaultEChartsForce() *opts.GraphForce {
	return &opts.GraphForce{Repulsion: 2000, EdgeLength: 60, Gravity: 0.1}
}

func (ECharts) Ext() string { return ".echarts.html" }

func (e ECharts) Write(w io.Writer, src Source) error {
	s := src.Snapshot()
	page := components.NewPage().SetPageTitle(e.Title)
	page.AddCharts(e.graphBase(s))
	return page.Render(w)
}

func (e ECharts) graphBase(s render.Snapshot) *charts.Graph {
	nodes := make([]opts.GraphNode, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = opts.GraphNode{
			Name:       n.Name,
			X:          float32(n.Pos.X),
			Y:          float32(n.Pos.Y),
			Value:      float32(n.Subs),
			SymbolSize: 2 * n.Subs,
			ItemStyle:  &opts.ItemStyle{Color: n.Fill},
		}
	}
	links := make([]opts.GraphLink, len(s.Edges))
	for i, l := range s.Edges {
		links[i] = opts.GraphLink{
			Source:    s.Nodes[l.Source].Name,
			Target:    s.Nodes[l.Target].Name,
			Value:     float32(l.Value),
			LineStyle: &opts.LineStyle{Color: l.Stroke, Curveness: 0.3},
		}
	}

	force := e.Force
	if force == nil {
		force = DefaultEChartsForce()
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.Title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    e.Title,
			Subtitle: fmt.Sprintf("%d nodes, %d links", len(nodes), len(links)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "force",
				Draggable: opts.Bool(true),
				Roam:      opts.Bool(true),
				Force:     force,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "right",
		}),
	)
	return graph
}
