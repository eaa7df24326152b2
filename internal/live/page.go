package live

import "html/template"

// viewerPage is executed with the container id. The page reads seed, depth and nsfw
// from its own query string and opens a session for the window it is shown in.
var viewerPage = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>subgraph</title>
    <style>
        * { margin: 0; }
        body { font: 10px sans-serif; }
        .link { fill: none; stroke-width: 1.5px; }
        circle { stroke: #333; stroke-width: 1.5px; cursor: move; }
        text { pointer-events: all; text-shadow: 0 1px 0 #fff, 1px 0 0 #fff, 0 -1px 0 #fff, -1px 0 0 #fff; }
        #status { position: fixed; bottom: 4px; left: 4px; color: #666; }
    </style>
  </head>
  <body>
    <div id="{{.}}"></div>
    <div id="status">connecting</div>
    <script type="text/javascript">
const container = document.getElementById({{.}});
const status = document.getElementById("status");
const params = new URLSearchParams(location.search);
const scheme = location.protocol === "https:" ? "wss://" : "ws://";
const ws = new WebSocket(scheme + location.host + "/ws");

let paths = {}, nodes = {}, labels = {};
let zoom = { x: 0, y: 0, k: 1 }, dragging = null, panning = null;

function send(msg) { ws.send(JSON.stringify(msg)); }

function index(svg) {
  paths = {}; nodes = {}; labels = {};
  svg.querySelectorAll("path[data-key]").forEach((el) => { paths[el.dataset.key] = el; });
  svg.querySelectorAll("circle[data-key]").forEach((el) => { nodes[el.dataset.key] = el; });
  svg.querySelectorAll("text[data-key]").forEach((el) => { labels[el.dataset.key] = el; });
}

function local(svg, e) {
  const root = svg.querySelector("g.zoom");
  const p = svg.createSVGPoint();
  p.x = e.clientX; p.y = e.clientY;
  return p.matrixTransform(root.getScreenCTM().inverse());
}

function attach(svg) {
  svg.addEventListener("wheel", (e) => {
    e.preventDefault();
    const k = zoom.k * Math.pow(2, -e.deltaY / 500);
    zoom.x = e.offsetX - (e.offsetX - zoom.x) * k / zoom.k;
    zoom.y = e.offsetY - (e.offsetY - zoom.y) * k / zoom.k;
    zoom.k = k;
    send({ type: "zoom", x: zoom.x, y: zoom.y, k: zoom.k });
  });
  svg.addEventListener("mousedown", (e) => {
    if (e.target.tagName === "circle") {
      dragging = e.target.dataset.key;
      const p = local(svg, e);
      send({ type: "dragstart", node: dragging, x: p.x, y: p.y });
    } else {
      panning = { x: e.clientX, y: e.clientY };
    }
  });
  window.onmousemove = (e) => {
    if (dragging) {
      const p = local(svg, e);
      send({ type: "drag", node: dragging, x: p.x, y: p.y });
    } else if (panning) {
      zoom.x += e.clientX - panning.x;
      zoom.y += e.clientY - panning.y;
      panning = { x: e.clientX, y: e.clientY };
      send({ type: "zoom", x: zoom.x, y: zoom.y, k: zoom.k });
    }
  };
  window.onmouseup = (e) => {
    if (dragging) {
      const p = local(svg, e);
      send({ type: "dragend", node: dragging, x: p.x, y: p.y });
    }
    dragging = null;
    panning = null;
  };
}

ws.onopen = () => {
  send({
    viewport: {
      width: Math.max(document.documentElement.clientWidth, window.innerWidth || 0),
      height: Math.max(document.documentElement.clientHeight, window.innerHeight || 0),
    },
    seed: params.get("seed") || "",
    depth: parseInt(params.get("depth") || "3", 10),
    nsfw: params.get("nsfw") === "true",
  });
};

ws.onmessage = (event) => {
  const msg = JSON.parse(event.data);
  switch (msg.type) {
    case "scene":
      container.innerHTML = msg.svg;
      index(container.querySelector("svg"));
      attach(container.querySelector("svg"));
      status.textContent = "session " + msg.session;
      break;
    case "tick":
      for (const key in msg.paths) {
        if (paths[key]) paths[key].setAttribute("d", msg.paths[key]);
      }
      for (const key in msg.nodes) {
        if (nodes[key]) nodes[key].setAttribute("transform", msg.nodes[key]);
        if (labels[key]) labels[key].setAttribute("transform", msg.nodes[key]);
      }
      status.textContent = "alpha " + msg.alpha.toFixed(3);
      break;
    case "zoom":
      container.querySelector("g.zoom").setAttribute("transform", msg.transform);
      break;
    case "settled":
      status.textContent = "settled after " + msg.ticks + " ticks";
      break;
    case "error":
      status.textContent = "error: " + msg.error;
      break;
  }
};

ws.onclose = () => { status.textContent = "disconnected"; };
    </script>
  </body>
</html>`))
