package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	Table(&b, []string{"NAME", "SUBS"}, [][]string{
		{"golang", "8"},
		{"programming", "12"},
	})
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("table has %d lines, want 4:\n%s", len(lines), b.String())
	}
	if lines[0] != "  NAME         SUBS" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[3] != "  programming  12" {
		t.Errorf("last row = %q", lines[3])
	}

	b.Reset()
	Table(&b, []string{"NAME"}, nil)
	if b.Len() != 0 {
		t.Errorf("empty table printed %q", b.String())
	}
}

func TestErrorf(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	Errorf(&b, "no such file %s", "graph.json")
	if got := b.String(); got != "✗ no such file graph.json\n" {
		t.Errorf("Errorf() wrote %q", got)
	}
}
