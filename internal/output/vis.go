package output

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"time"

	. "github.com/psidex/subgraph/internal/lib"
)

type visNode struct {
	ID    int     `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	URL   string  `json:"url"`
}

type visEdge struct {
	ID     string `json:"id"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Arrows string `json:"arrows"`
	Color  struct {
		Color string `json:"color"`
	} `json:"color"`
}

// visItem is one entry of the page's replay list, Type is "node" or "edge".
type visItem struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Vis writes a vis.js network page. Nodes start where the layout left them and the
// browser keeps running barnesHut physics. With Replay set the page adds the nodes and
// then the links one at a time, Replay apart.
type Vis struct {
	Title  string
	Replay time.Duration
}

func (Vis) Ext() string { return ".vis.html" }

// items lists the nodes, then the links, in the order the page adds them.
func (Vis) items(src Source) []visItem {
	s := src.Snapshot()
	hasher := NewStrHasher()
	items := make([]visItem, 0, len(s.Nodes)+len(s.Edges))

	for _, n := range s.Nodes {
		items = append(items, visItem{"node", visNode{
			ID:    hasher.Hash(n.Name),
			Label: n.Name,
			Value: n.Subs,
			X:     n.Pos.X,
			Y:     n.Pos.Y,
			Color: n.Fill,
			URL:   n.Href,
		}})
	}
	for _, e := range s.Edges {
		ve := visEdge{
			ID:     e.Key,
			From:   hasher.Hash(s.Nodes[e.Source].Name),
			To:     hasher.Hash(s.Nodes[e.Target].Name),
			Arrows: "to",
		}
		ve.Color.Color = e.Stroke
		items = append(items, visItem{"edge", ve})
	}
	return items
}

func (v Vis) Write(w io.Writer, src Source) error {
	// json.Marshal escapes <, > and &, so the list is safe inside the script element.
	items, err := json.Marshal(v.items(src))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, visPage, html.EscapeString(v.Title), items, v.Replay.Milliseconds())
	return err
}

const visPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        * {
            margin: 0;
        }
        #network {
            width: 100vw;
            height: 100vh;
        }
    </style>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="network"></div>
    <script type="text/javascript">
const items = %s;
const replay = %d;

const options = {
  nodes: { shape: "dot", scaling: { min: 4, max: 40 } },
  edges: { smooth: { type: "curvedCW", roundness: 0.3 } },
  physics: {
    enabled: true,
    solver: "barnesHut",
    barnesHut: {
      gravitationalConstant: -10000,
      springLength: 60,
    },
  },
};
const network = new vis.Network(document.getElementById("network"), { nodes: [], edges: [] }, options);

network.on("doubleClick", (e) => {
  if (e.nodes.length === 0) return;
  const node = network.body.data.nodes.get(e.nodes[0]);
  if (node && node.url) window.open(node.url, "_blank");
});

function add(item) {
  if (item.type === "node") {
    network.body.data.nodes.add(item.data);
  } else if (item.type === "edge") {
    network.body.data.edges.add(item.data);
  }
}

if (replay > 0) {
  let index = 0;
  const next = () => {
    if (index < items.length) {
      add(items[index++]);
      setTimeout(next, replay);
    }
  };
  next();
} else {
  items.forEach(add);
}
    </script>
  </body>
</html>
`
