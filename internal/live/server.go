// Package live serves the graph viewer and runs one rendering session per websocket.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/hub"
	"github.com/psidex/subgraph/internal/lib"
	"github.com/psidex/subgraph/internal/render"
)

// Server owns the graph data and the live sessions drawing it.
type Server struct {
	cfg      Config
	log      *slog.Logger
	hub      *hub.Hub
	upgrader websocket.Upgrader
	router   chi.Router
	// ctx ends every session when the server is closed.
	ctx    context.Context
	cancel context.CancelFunc

	mu       *sync.RWMutex
	data     graph.Data
	sessions map[string]*session
}

func NewServer(cfg Config, data graph.Data, h *hub.Hub) *Server {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	if h == nil {
		h = hub.New(l)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		log:      l,
		hub:      h,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mu:       &sync.RWMutex{},
		data:     data,
		sessions: make(map[string]*session),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Websockets and event streams stay open, only plain requests get a timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handleIndex)
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/graph/{seed}", s.handleGraph)
		r.Get("/sessions", s.handleSessions)
	})
	r.Get("/ws", s.handleWS)
	r.Get("/sessions/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		s.hub.ServeSSE(w, r, chi.URLParam(r, "id"))
	})

	return r
}

// Router returns the chi router, it is the server's http.Handler.
func (s *Server) Router() chi.Router { return s.router }

// Hub is where sessions publish their frames.
func (s *Server) Hub() *hub.Hub { return s.hub }

// Close ends all live sessions.
func (s *Server) Close() {
	s.cancel()
}

// Data returns the graph currently served.
func (s *Server) Data() graph.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetData replaces the graph and asks every live session to redraw.
func (s *Server) SetData(d graph.Data) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d
	for _, sess := range s.sessions {
		select {
		case sess.reload <- struct{}{}:
		default:
		}
	}
	s.log.Info("graph data replaced", "nodes", len(d.Nodes), "links", len(d.Links), "sessions", len(s.sessions))
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewerPage.Execute(w, s.cfg.Render.ContainerID); err != nil {
		s.log.Warn("could not write viewer page", "err", err)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := graph.Query{Seed: chi.URLParam(r, "seed"), Depth: graph.MaxDepth}
	params := r.URL.Query()
	if v := params.Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "depth must be an integer")
			return
		}
		q.Depth = graph.ClampDepth(d)
	}
	if v := params.Get("nsfw"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "nsfw must be a boolean")
			return
		}
		q.NSFW = b
	}
	if v := params.Get("minSubs"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m < 0 {
			writeError(w, http.StatusBadRequest, "minSubs must be a non negative number")
			return
		}
		q.MinSubs = m
	}

	d, err := graph.Extract(s.Data(), q)
	switch {
	case errors.Is(err, graph.ErrUnknownSeed):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.hub.Sessions()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("ws upgrade failed", "err", err)
		return
	}
	ws := lib.NewThreadSafeWebSocket(c)
	defer ws.Close()

	_, msg, err := ws.ReadMessage()
	if err != nil {
		s.log.Debug("ws config read failed", "err", err)
		return
	}
	cfg := SessionConfig{}
	if err := json.Unmarshal(msg, &cfg); err != nil {
		_ = ws.WriteMessage(t, errorMessage(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		_ = ws.WriteMessage(t, errorMessage(err))
		return
	}
	cfg = cfg.withDefaults(s.cfg)

	opts := s.cfg.Render
	opts.Viewport = cfg.Viewport
	id := uuid.NewString()
	l := s.log.With("session", id)
	opts.Logger = l

	sess := &session{
		id:       id,
		cfg:      cfg,
		ws:       ws,
		r:        render.New(opts),
		hub:      s.hub,
		log:      l,
		data:     s.Data,
		reload:   make(chan struct{}, 1),
		maxTicks: s.cfg.MaxTicks,
	}

	s.hub.Open(id)
	defer s.hub.Close(id)
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}()

	l.Info("session started", "seed", cfg.Seed, "depth", cfg.Depth, "runtime", cfg.Runtime.Duration)
	if err := sess.start(); err != nil {
		l.Debug("session could not start", "err", err)
		_ = ws.WriteMessage(t, errorMessage(err))
		return
	}
	if err := sess.run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Debug("session ended with error", "err", err)
	}
	l.Info("session ended", "ticks", sess.r.Ticks())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
