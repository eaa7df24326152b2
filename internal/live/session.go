package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/hub"
	"github.com/psidex/subgraph/internal/lib"
	"github.com/psidex/subgraph/internal/render"
	"github.com/psidex/subgraph/internal/scene"
)

var errClosedByClient = errors.New("session closed by client")

// All of the websocket messages sent by a session will be text.
var t = websocket.TextMessage

// session is one client's renderer, driven by a ticker and by the client's messages.
type session struct {
	id     string
	cfg    SessionConfig
	ws     lib.ThreadSafeWebSocket
	r      *render.Renderer
	hub    *hub.Hub
	log    *slog.Logger
	data   func() graph.Data
	reload chan struct{}
	// maxTicks bounds one warm up, the count restarts when the graph is reheated.
	maxTicks int
	warm     int
}

func (s *session) send(msg []byte) error {
	return s.ws.WriteMessage(t, msg)
}

func (s *session) publish(typ string, data any) {
	s.hub.Publish(hub.Message{Session: s.id, Type: typ, Data: data})
}

// subgraph is the part of the current data this session draws.
func (s *session) subgraph() (graph.Data, error) {
	d := s.data()
	if s.cfg.Seed == "" {
		return d, nil
	}
	return graph.Extract(d, s.cfg.Query())
}

// sendScene sends the whole drawing, the client replaces its own with it.
func (s *session) sendScene() error {
	svg, err := scene.Markup(s.r.SVG())
	if err != nil {
		return err
	}
	msg, err := newSceneMessage(s.id, svg)
	if err != nil {
		return err
	}
	s.publish(TypeScene, map[string]any{"svg": svg})
	return s.send(msg)
}

// start renders the first scene.
func (s *session) start() error {
	d, err := s.subgraph()
	if err != nil {
		return err
	}
	if err := s.r.Render(d); err != nil {
		return err
	}
	s.warm = 0
	return s.sendScene()
}

// run reads client messages and sends ticks until the runtime is over, the client
// leaves or ctx is done.
func (s *session) run(ctx context.Context) error {
	// The reader must not outlive the session, whichever way the loop below ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmds := make(chan clientMessage)
	readErr := make(chan error, 1)
	go s.read(ctx, cmds, readErr)

	ticker := time.NewTicker(s.cfg.TickInterval.Duration)
	defer ticker.Stop()
	timer := time.NewTimer(s.cfg.Runtime.Duration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			s.log.Debug("session runtime over")
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err

		case m := <-cmds:
			if err := s.handle(m); err != nil {
				if errors.Is(err, errClosedByClient) {
					return nil
				}
				s.log.Debug("client message failed", "type", m.Type, "err", err)
				if err := s.send(errorMessage(err)); err != nil {
					return err
				}
			}

		case <-s.reload:
			if err := s.refresh(); err != nil {
				s.log.Warn("could not reload session", "err", err)
				if err := s.send(errorMessage(err)); err != nil {
					return err
				}
			}

		case <-ticker.C:
			if err := s.tick(); err != nil {
				return err
			}
		}
	}
}

// read decodes client messages onto cmds until the connection fails or ctx is done.
// A blocked read is ended by closing the connection.
func (s *session) read(ctx context.Context, cmds chan<- clientMessage, readErr chan<- error) {
	for {
		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		var m clientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			s.log.Debug("ignoring unreadable message", "err", err)
			continue
		}
		select {
		case cmds <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) tick() error {
	if s.r.State() == render.Settled {
		return nil
	}
	if s.maxTicks > 0 && s.warm >= s.maxTicks {
		s.r.Simulation().Stop()
	}
	if s.r.Step() {
		s.warm++
		f := s.r.Frame()
		msg, err := newTickMessage(f)
		if err != nil {
			return err
		}
		s.publish(TypeTick, f)
		return s.send(msg)
	}
	s.log.Debug("session settled", "ticks", s.r.Ticks())
	s.publish(TypeSettled, map[string]any{"ticks": s.r.Ticks()})
	return s.send(settledMessage(s.r.Ticks()))
}

func (s *session) handle(m clientMessage) error {
	switch m.Type {
	case CmdZoom:
		if err := s.r.Zoom(m.X, m.Y, m.K); err != nil {
			return err
		}
		s.publish(TypeZoom, map[string]any{"transform": s.r.Transform().String()})
		return s.send(zoomMessage(s.r.Transform()))

	case CmdDragStart, CmdDrag, CmdDragEnd:
		i, ok := s.r.NodeIndex(m.Node)
		if !ok {
			return fmt.Errorf("%w: %q", render.ErrNoNode, m.Node)
		}
		s.warm = 0
		switch m.Type {
		case CmdDragStart:
			return s.r.DragStart(i, m.X, m.Y)
		case CmdDrag:
			return s.r.DragMove(i, m.X, m.Y)
		default:
			return s.r.DragEnd(i, m.X, m.Y)
		}

	case CmdLinks:
		if err := s.r.Update(m.Links); err != nil {
			return err
		}
		s.warm = 0
		return s.sendScene()

	case CmdClose:
		return errClosedByClient
	}
	return fmt.Errorf("unknown message type %q", m.Type)
}

// refresh redraws after the data changed. If the same nodes are drawn only the links
// are updated so the layout carries on from where it is.
func (s *session) refresh() error {
	d, err := s.subgraph()
	if err != nil {
		return err
	}
	if sameNodes(s.r.Snapshot().Nodes, d.Nodes) {
		if err := s.r.Update(d.Links); err != nil {
			return err
		}
		s.warm = 0
		return s.sendScene()
	}
	return s.start()
}

func sameNodes(drawn []render.SnapshotNode, nodes []graph.Node) bool {
	if len(drawn) != len(nodes) {
		return false
	}
	for i := range nodes {
		if drawn[i].Name != nodes[i].Name {
			return false
		}
	}
	return true
}
