package scene

import (
	"net/url"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func keysOf(bs []Bound) []string {
	ks := make([]string, len(bs))
	for i, b := range bs {
		ks[i] = b.Key
	}
	return ks
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLayerJoin(t *testing.T) {
	root := El("svg")
	l := NewLayer(root, "circle", "class", "nodes")

	sel := l.Join([]string{"a", "b", "c"})
	if got := keysOf(sel.Enter); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("enter = %v", got)
	}
	if len(sel.Update) != 0 || len(sel.Exit) != 0 {
		t.Fatalf("unexpected update/exit on first join: %+v", sel)
	}
	SetAttr(sel.Enter[0].El, "r", "5")

	sel = l.Join([]string{"a", "c", "d", "d"})
	if got := keysOf(sel.Enter); !equal(got, []string{"d"}) {
		t.Errorf("enter = %v", got)
	}
	if got := keysOf(sel.Update); !equal(got, []string{"a", "c"}) {
		t.Errorf("update = %v", got)
	}
	if len(sel.Exit) != 1 {
		t.Fatalf("exit = %d elements, want 1", len(sel.Exit))
	}
	if k, _ := Attr(sel.Exit[0], KeyAttr); k != "b" || sel.Exit[0].Parent != nil {
		t.Errorf("exit element %q is still attached", k)
	}
	if got := len(ElementsByTag(root, "circle")); got != 3 {
		t.Errorf("%d circles in the tree, want 3", got)
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d", l.Len())
	}
	// Persisting elements keep their state.
	if el, _ := l.Get("a"); el != nil {
		if r, _ := Attr(el, "r"); r != "5" {
			t.Errorf("persisting element lost its attributes")
		}
	}

	var order []string
	l.Each(func(key string, _ *html.Node) { order = append(order, key) })
	if !equal(order, []string{"a", "c", "d"}) {
		t.Errorf("document order = %v", order)
	}
}

func TestTreeHelpers(t *testing.T) {
	root := El("div", "id", "graph")
	svg := Append(root, El("svg", "width", "10"))
	a := Append(Append(svg, El("text")), El("a", "xlink:href", "http://reddit.com/r/foo"))
	SetText(a, "foo")
	Append(svg, El("a", "href", "/r/bar"))
	Append(svg, El("a", "href", "mailto:x@example.com"))

	if FindByID(root, "graph") != root || FindByID(root, "nope") != nil {
		t.Error("FindByID() failed")
	}
	if Text(root) != "foo" {
		t.Errorf("Text() = %q", Text(root))
	}
	base, _ := url.Parse("https://example.com/x")
	got := Hrefs(root, base)
	want := []string{"http://reddit.com/r/foo", "https://example.com/r/bar"}
	if !equal(got, want) {
		t.Errorf("Hrefs() = %v, want %v", got, want)
	}

	SetAttr(svg, "width", "20")
	markup, err := Markup(root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(markup, `<svg width="20">`) || !strings.Contains(markup, `xlink:href="http://reddit.com/r/foo"`) {
		t.Errorf("unexpected markup %s", markup)
	}
}

func TestNewDocument(t *testing.T) {
	doc, _, body := NewDocument("subgraph")
	Append(body, El("div", "id", "graph"))
	var sb strings.Builder
	if err := Render(&sb, doc); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "<title>subgraph</title>") || !strings.Contains(out, `<div id="graph"></div>`) {
		t.Errorf("unexpected document %s", out)
	}
}
