package lib

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"50ms"`, 50 * time.Millisecond, false},
		{`1000`, time.Microsecond, false},
		{`"2m"`, 2 * time.Minute, false},
		{`"soon"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && d.Duration != tt.want {
				t.Errorf("got %v, want %v", d.Duration, tt.want)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1.5s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 1500*time.Millisecond {
		t.Errorf("got %v", d.Duration)
	}
	b, err := json.Marshal(DurationFrom(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"1s"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue[int]()
	if _, ok := q.Dequeue(); ok {
		t.Fatal("Dequeue() on empty queue returned ok")
	}
	for i := 1; i <= 3; i++ {
		q.Enqueue(i)
	}
	if q.Size() != 3 {
		t.Errorf("Size() = %d", q.Size())
	}
	for i := 1; i <= 3; i++ {
		if got, _ := q.Dequeue(); got != i {
			t.Errorf("Dequeue() = %d, want %d", got, i)
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSetOf(1, 2)
	if s.Add(2) {
		t.Error("Add() of an existing element returned true")
	}
	if !s.Add(3) || s.Size() != 3 {
		t.Errorf("Add(3) failed, size %d", s.Size())
	}
	s.Remove(1)
	if s.Contains(1) || len(s.AsSlice()) != 2 {
		t.Errorf("Remove(1) failed: %v", s.AsSlice())
	}
}

func TestStrHasher(t *testing.T) {
	h := NewStrHasher()
	a, b := h.Hash("a"), h.Hash("b")
	if a != 1 || b != 2 || h.Hash("a") != 1 || h.Len() != 2 {
		t.Errorf("unexpected ids a=%d b=%d len=%d", a, b, h.Len())
	}
}

func TestLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := LevelLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected log output %q", out)
	}
	if !strings.Contains(out, "source=lib_test.go:") {
		t.Errorf("source is not shortened: %q", out)
	}
	if _, err := LevelLogger(&buf, "loud"); err == nil {
		t.Error("LevelLogger() accepted an unknown level")
	}
	if lvl, _ := ParseSLogLevel("debug"); lvl != slog.LevelDebug {
		t.Errorf("ParseSLogLevel(debug) = %v", lvl)
	}
}
