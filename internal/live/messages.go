package live

import (
	"encoding/json"
	"fmt"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/render"
)

// Types of the messages sent to the client.
const (
	TypeScene   = "scene"
	TypeTick    = "tick"
	TypeSettled = "settled"
	TypeZoom    = "zoom"
	TypeError   = "error"
)

// Types of the messages a client sends after its SessionConfig.
const (
	CmdZoom      = "zoom"
	CmdDragStart = "dragstart"
	CmdDrag      = "drag"
	CmdDragEnd   = "dragend"
	CmdLinks     = "links"
	CmdClose     = "close"
)

// clientMessage is any message from the client, the fields used depend on Type.
type clientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	K    float64 `json:"k"`
	// Node is the name of the dragged node.
	Node  string       `json:"node"`
	Links []graph.Link `json:"links"`
}

type sceneMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	SVG     string `json:"svg"`
}

type tickMessage struct {
	Type string `json:"type"`
	render.Frame
}

func newSceneMessage(session, svg string) ([]byte, error) {
	return json.Marshal(sceneMessage{TypeScene, session, svg})
}

func newTickMessage(f render.Frame) ([]byte, error) {
	return json.Marshal(tickMessage{TypeTick, f})
}

func settledMessage(ticks int) []byte {
	return []byte(fmt.Sprintf(`{"type": "settled", "ticks": %d}`, ticks))
}

func zoomMessage(t render.Transform) []byte {
	return []byte(fmt.Sprintf(`{"type": "zoom", "transform": "%s"}`, t))
}

func errorMessage(err error) []byte {
	msg, _ := json.Marshal(err.Error())
	return []byte(fmt.Sprintf(`{"type": "error", "error": %s}`, msg))
}
