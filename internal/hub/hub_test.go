package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/psidex/subgraph/internal/lib"
)

func TestPublishAndClose(t *testing.T) {
	h := New(lib.DiscardLogger())
	if _, ok := h.Subscribe("s1", 1); ok {
		t.Fatal("Subscribe() to a session that is not open")
	}
	h.Open("s1")
	h.Open("s2")
	a, _ := h.Subscribe("s1", 4)
	b, _ := h.Subscribe("s1", 1)
	other, _ := h.Subscribe("s2", 4)

	h.Publish(Message{Session: "s1", Type: "tick"})
	h.Publish(Message{Session: "s1", Type: "tick"})

	if got := len(a.Events()); got != 2 {
		t.Errorf("subscriber a has %d messages, want 2", got)
	}
	// b's buffer holds one message, the second is dropped rather than blocking.
	if got := len(b.Events()); got != 1 {
		t.Errorf("subscriber b has %d messages, want 1", got)
	}
	if got := len(other.Events()); got != 0 {
		t.Errorf("subscriber of another session got %d messages", got)
	}

	h.Close("s1")
	var last Message
	for m := range a.Events() {
		last = m
	}
	if last.Type != Closed {
		t.Errorf("last message = %+v, want %s", last, Closed)
	}
	if h.Has("s1") || !h.Has("s2") {
		t.Errorf("sessions = %v", h.Sessions())
	}
	h.Unsubscribe(a)

	h.Unsubscribe(other)
	if _, ok := <-other.Events(); ok {
		t.Error("events still open after Unsubscribe")
	}
	if h.Subscribers("s2") != 0 {
		t.Errorf("Subscribers() = %d", h.Subscribers("s2"))
	}
}

func TestServeSSE(t *testing.T) {
	h := New(lib.DiscardLogger())
	h.Open("s1")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeSSE(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?session=nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?session=s1", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	if !sc.Scan() || sc.Text() != ": connected" {
		t.Fatalf("first line = %q", sc.Text())
	}
	for h.Subscribers("s1") == 0 {
		time.Sleep(time.Millisecond)
	}
	h.Publish(Message{Session: "s1", Type: "settled"})

	var lines []string
	for sc.Scan() && len(lines) < 3 {
		if sc.Text() != "" {
			lines = append(lines, sc.Text())
		}
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) != 2 || lines[0] != "event: settled" || !strings.Contains(lines[1], `"type":"settled"`) {
		t.Errorf("unexpected event %q", lines)
	}
}
