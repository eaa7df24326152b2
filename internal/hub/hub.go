// Package hub fans messages from live sessions out to their subscribers.
package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one event of a session.
type Message struct {
	Session string `json:"session"`
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
}

// Closed is the type of the last message a subscriber receives for a session.
const Closed = "closed"

// Subscriber receives the messages of one session.
type Subscriber struct {
	id      string
	session string
	events  chan Message
}

func (s *Subscriber) ID() string { return s.id }

// Events is closed once the session closes or the subscriber is removed.
func (s *Subscriber) Events() <-chan Message { return s.events }

// Hub is safe for concurrent use. Publish never blocks, a subscriber whose buffer is
// full misses the message.
type Hub struct {
	mu       *sync.RWMutex
	log      *slog.Logger
	sessions map[string]map[*Subscriber]struct{}
}

func New(log *slog.Logger) *Hub {
	return &Hub{
		mu:       &sync.RWMutex{},
		log:      log,
		sessions: make(map[string]map[*Subscriber]struct{}),
	}
}

// Open makes session available to subscribers.
func (h *Hub) Open(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[session]; !ok {
		h.sessions[session] = make(map[*Subscriber]struct{})
	}
}

// Close sends a Closed message to the session's subscribers and ends their streams.
func (h *Hub) Close(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[session]
	if !ok {
		return
	}
	for s := range subs {
		select {
		case s.events <- Message{Session: session, Type: Closed}:
		default:
		}
		close(s.events)
	}
	delete(h.sessions, session)
}

func (h *Hub) Has(session string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[session]
	return ok
}

// Sessions lists the open sessions, sorted.
func (h *Hub) Sessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Subscribe returns a subscriber for session, ok is false if it is not open.
func (h *Hub) Subscribe(session string, buffer int) (*Subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[session]
	if !ok {
		return nil, false
	}
	s := &Subscriber{
		id:      uuid.NewString(),
		session: session,
		events:  make(chan Message, buffer),
	}
	subs[s] = struct{}{}
	h.log.Debug("subscribed", "session", session, "subscriber", s.id, "total", len(subs))
	return s, true
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[s.session]
	if !ok {
		return
	}
	if _, ok := subs[s]; ok {
		delete(subs, s)
		close(s.events)
		h.log.Debug("unsubscribed", "session", s.session, "subscriber", s.id, "total", len(subs))
	}
}

// Publish hands m to every subscriber of m.Session.
func (h *Hub) Publish(m Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions[m.Session] {
		select {
		case s.events <- m:
		default:
			h.log.Debug("subscriber is slow, skipping message", "subscriber", s.id, "type", m.Type)
		}
	}
}

// Subscribers counts the subscribers of session.
func (h *Hub) Subscribers(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[session])
}

// ServeSSE streams the messages of session to w as server-sent events.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, session string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	sub, ok := h.Subscribe(session, 64)
	if !ok {
		http.Error(w, "no such session", http.StatusNotFound)
		return
	}
	defer h.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case m, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(m)
			if err != nil {
				h.log.Warn("could not marshal message", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Type, data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
