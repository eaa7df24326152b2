package output

import (
	"errors"
	"io"

	"github.com/psidex/subgraph/internal/scene"
)

const pageStyle = `
* { margin: 0; }
body { font: 10px sans-serif; }
.link { fill: none; stroke-width: 1.5px; }
circle { stroke: #333; stroke-width: 1.5px; }
text { pointer-events: all; text-shadow: 0 1px 0 #fff, 1px 0 0 #fff, 0 -1px 0 #fff, -1px 0 0 #fff; }
`

// panZoom lets the static page be panned with the mouse and zoomed with the wheel.
const panZoom = `
(function () {
  const svg = document.querySelector("body > div > svg");
  const root = svg && svg.querySelector("g.zoom");
  if (!root) return;
  let t = { x: 0, y: 0, k: 1 }, last = null;
  const apply = () => root.setAttribute("transform", "translate(" + t.x + "," + t.y + ") scale(" + t.k + ")");
  svg.addEventListener("wheel", (e) => {
    e.preventDefault();
    const k = t.k * Math.pow(2, -e.deltaY / 500);
    t.x = e.offsetX - (e.offsetX - t.x) * k / t.k;
    t.y = e.offsetY - (e.offsetY - t.y) * k / t.k;
    t.k = k;
    apply();
  });
  svg.addEventListener("mousedown", (e) => { last = { x: e.clientX, y: e.clientY }; });
  window.addEventListener("mouseup", () => { last = null; });
  window.addEventListener("mousemove", (e) => {
    if (!last) return;
    t.x += e.clientX - last.x;
    t.y += e.clientY - last.y;
    last = { x: e.clientX, y: e.clientY };
    apply();
  });
})();
`

// HTML writes a standalone page holding the drawing's element tree.
type HTML struct {
	Title string
}

func (HTML) Ext() string { return ".html" }

func (h HTML) Write(w io.Writer, src Source) error {
	doc, head, body := scene.NewDocument(h.Title)
	scene.SetText(scene.Append(head, scene.El("style")), pageStyle)

	container := src.Document()
	if container.Parent != nil {
		return errors.New("drawing is already attached to a document")
	}
	scene.Append(body, container)
	defer scene.Remove(container)
	scene.SetText(scene.Append(body, scene.El("script")), panZoom)

	return scene.Render(w, doc)
}
