package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/psidex/subgraph/internal/graph"
)

func sample() graph.Data {
	return graph.Data{
		Nodes: []graph.Node{
			{Name: "golang", Subs: 30},
			{Name: "programming", Subs: 50},
			{Name: "rust", Subs: 25},
			{Name: "cooking", Subs: 40},
		},
		Links: []graph.Link{
			{Source: 0, Target: 1, Value: 1},
			{Source: 1, Target: 2, Value: 2},
			{Source: 2, Target: 0, Value: 1},
			{Source: 3, Target: 3, Value: 3},
		},
	}
}

func writeSample(t *testing.T, path string) {
	t.Helper()
	b, err := json.Marshal(sample())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestExtractJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeSample(t, path)

	out, err := execute(t, "extract", path, "GoLang", "--depth", "1", "--json")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var d graph.Data
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("output is not graph data: %v\n%s", err, out)
	}
	var names []string
	for _, n := range d.Nodes {
		names = append(names, n.Name)
	}
	if len(names) == 0 || names[0] != "golang" {
		t.Errorf("nodes = %v, want golang first", names)
	}
	for _, n := range names {
		if n == "cooking" {
			t.Errorf("nodes = %v, cooking is not linked to golang", names)
		}
	}
}

func TestExtractUnknownSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeSample(t, path)

	if _, err := execute(t, "extract", path, "gardening"); err == nil {
		t.Error("extract accepted a seed that is not in the data")
	}
}

func TestPrintExtract(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printExtract(&buf, sample())

	out := buf.String()
	for _, want := range []string{"SUBREDDIT", "programming", "4 subreddits, 4 links"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeSample(t, filepath.Join(dir, "a.json"))
	writeSample(t, filepath.Join(dir, "b.json"))

	_, err := execute(t, "render", filepath.Join(dir, "*.json"),
		"--format", "adjacency", "--out", out, "--random-seed", "5", "--workers", "2")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"a.adjacency.json", "b.adjacency.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, filepath.Join(dir, "a.json"))

	tests := []struct {
		name string
		args []string
	}{
		{"no match", []string{"render", filepath.Join(dir, "*.yaml")}},
		{"bad format", []string{"render", filepath.Join(dir, "a.json"), "--format", "gif"}},
		{"bad layout", []string{"render", filepath.Join(dir, "a.json"), "--layout", "circle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "deep", "er"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"a.json", "deep/b.json", "deep/er/c.json", "deep/notes.txt"} {
		writeSample(t, filepath.Join(dir, filepath.FromSlash(p)))
	}

	got, err := expandGlobs([]string{filepath.Join(dir, "**", "*.json"), filepath.Join(dir, "a.json")})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expandGlobs() = %v, want the three json files once each", got)
	}
}
