package lib

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ThreadSafeWebSocket wraps a websocket.Conn and allows many readers and writers to
// read/write the conn from goroutines without having to track safe access.
// This comes with the caveat that all writes block eachother, and similarly for reads.
// See https://pkg.go.dev/github.com/gorilla/websocket?utm_source=godoc#hdr-Concurrency.
type ThreadSafeWebSocket struct {
	c       *websocket.Conn
	writeMu *sync.Mutex
	readMu  *sync.Mutex
}

func NewThreadSafeWebSocket(c *websocket.Conn) ThreadSafeWebSocket {
	return ThreadSafeWebSocket{c, &sync.Mutex{}, &sync.Mutex{}}
}

func (s ThreadSafeWebSocket) ReadMessage() (int, []byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	return s.c.ReadMessage()
}

func (s ThreadSafeWebSocket) WriteMessage(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteMessage(messageType, data)
}

func (s ThreadSafeWebSocket) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteJSON(v)
}

// Close sends a normal closure frame and closes the underlying conn.
func (s ThreadSafeWebSocket) Close() error {
	s.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.c.Close()
}
