package output

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/render"
)

func settled(t *testing.T) *render.Renderer {
	t.Helper()
	opts := render.DefaultOptions()
	opts.Seed = 7
	opts.Viewport = render.Viewport{Width: 420, Height: 400}
	r := render.New(opts)
	err := r.Render(graph.Data{
		Nodes: []graph.Node{{Name: "foo", Subs: 10}, {Name: "bar", Subs: 5}, {Name: "baz", Subs: 7}},
		Links: []graph.Link{
			{Source: 0, Target: 1, Value: 1},
			{Source: 1, Target: 2, Value: 2},
			{Source: 2, Target: 0, Value: 3},
			{Source: 0, Target: 1, Value: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	r.Settle(1000)
	return r
}

func write(t *testing.T, format string, src Source) []byte {
	t.Helper()
	wr, err := Get(format)
	if err != nil {
		t.Fatal(err)
	}
	name, err := RenderToFile(wr, src, filepath.Join(t.TempDir(), "python"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(name, wr.Ext()) {
		t.Errorf("file %s does not end in %s", name, wr.Ext())
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Fatalf("%s is empty", name)
	}
	return b
}

func TestGet(t *testing.T) {
	if got := Formats(); len(got) != 7 || got[0] != "adjacency" {
		t.Errorf("Formats() = %v", got)
	}
	if _, err := Get("gif"); err == nil {
		t.Error("Get() accepted an unknown format")
	}
}

func TestHTML(t *testing.T) {
	r := settled(t)
	out := string(write(t, "html", r))
	for _, want := range []string{"<!DOCTYPE html>", `<div id="graph">`, `xlink:href="http://reddit.com/r/bar"`, "<script>"} {
		if !strings.Contains(out, want) {
			t.Errorf("page is missing %s", want)
		}
	}
	if r.Document().Parent != nil {
		t.Error("drawing is still attached to the page")
	}
	// The drawing can be written again.
	write(t, "html", r)
}

func TestSVG(t *testing.T) {
	out := string(write(t, "svg", settled(t)))
	if got := strings.Count(out, `class="link"`); got != 4 {
		t.Errorf("%d link paths, want 4", got)
	}
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("%d circles, want 3", got)
	}
	if !strings.Contains(out, `xlink:href="http://reddit.com/r/foo"`) {
		t.Error("svg is missing the foo hyperlink")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("svg is not terminated")
	}
}

func TestPNG(t *testing.T) {
	b := write(t, "png", settled(t))
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 400 || got.Y != 300 {
		t.Errorf("image is %v, want 400x300", got)
	}
}

func TestECharts(t *testing.T) {
	out := string(write(t, "echarts", settled(t)))
	for _, want := range []string{`"layout":"force"`, `"repulsion":2000`, `"name":"baz"`} {
		if !strings.Contains(out, want) {
			t.Errorf("page is missing %s", want)
		}
	}
}

func TestGraphology(t *testing.T) {
	var g SerializedGraph
	if err := json.Unmarshal(write(t, "json", settled(t)), &g); err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 3 || len(g.Edges) != 4 {
		t.Fatalf("%d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	keys := map[string]string{}
	for _, n := range g.Nodes {
		keys[n.Attributes.Label] = n.Key
	}
	if keys["foo"] != "1" || g.Edges[0].Source != keys["foo"] || g.Edges[0].Target != keys["bar"] {
		t.Errorf("edge 0 is %+v, node keys %v", g.Edges[0], keys)
	}
	if g.Edges[3].Key != "0-1#1" || !g.Options.Multi {
		t.Errorf("parallel edge lost: %+v", g.Edges[3])
	}
}

func TestAdjacency(t *testing.T) {
	var m map[string][]string
	if err := json.Unmarshal(write(t, "adjacency", settled(t)), &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"foo": "bar", "bar": "baz", "baz": "foo"}
	for k, v := range want {
		if len(m[k]) != 1 || m[k][0] != v {
			t.Errorf("%s links to %v, want [%s]", k, m[k], v)
		}
	}
}

func TestVis(t *testing.T) {
	out := string(write(t, "vis", settled(t)))
	for _, want := range []string{"vis-network.min.js", `solver: "barnesHut"`, "const replay = 50;", `"url":"http://reddit.com/r/baz"`} {
		if !strings.Contains(out, want) {
			t.Errorf("page is missing %s", want)
		}
	}

	items := Vis{}.items(settled(t))
	if len(items) != 7 {
		t.Fatalf("%d items, want 3 nodes and 4 edges", len(items))
	}
	for i, it := range items {
		if want := map[bool]string{true: "node", false: "edge"}[i < 3]; it.Type != want {
			t.Errorf("items[%d] is a %s, want %s", i, it.Type, want)
		}
	}
	e := items[6].Data.(visEdge)
	if e.ID != "0-1#1" || e.From != 1 || e.To != 2 || e.Arrows != "to" {
		t.Errorf("parallel edge = %+v", e)
	}
}
