package graph

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func sample() Data {
	return Data{
		Nodes: []Node{
			{Name: "python", Subs: 20},
			{Name: "learnpython", Subs: 10},
			{Name: "django", Subs: 8},
			{Name: "flask", Subs: 4},
			{Name: "programming", Subs: 30},
			{Name: "nsfwpython", Subs: 9, Adult: true},
		},
		Links: []Link{
			{Source: 0, Target: 1, Value: 1},
			{Source: 0, Target: 2, Value: 2},
			{Source: 2, Target: 3, Value: 3},
			{Source: 4, Target: 0, Value: 1},
			{Source: 4, Target: 3, Value: 2},
			{Source: 0, Target: 5, Value: 1},
			{Source: 0, Target: 1, Value: 2},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		data  Data
		field string
		index int
	}{
		{"empty name", Data{Nodes: []Node{{Name: ""}}}, "nodes", 0},
		{"duplicate name", Data{Nodes: []Node{{Name: "a"}, {Name: "a"}}}, "nodes", 1},
		{"negative subs", Data{Nodes: []Node{{Name: "a", Subs: -1}}}, "nodes", 0},
		{"nan subs", Data{Nodes: []Node{{Name: "a", Subs: math.NaN()}}}, "nodes", 0},
		{"source out of range", Data{Nodes: []Node{{Name: "a"}}, Links: []Link{{Source: 1, Target: 0}}}, "links", 0},
		{"negative target", Data{Nodes: []Node{{Name: "a"}}, Links: []Link{{Source: 0, Target: 0}, {Source: 0, Target: -1}}}, "links", 1},
		{"duplicate id", Data{Nodes: []Node{{Name: "a"}}, Links: []Link{{ID: "x", Source: 0, Target: 0}, {ID: "x", Source: 0, Target: 0}}}, "links", 1},
		{"id shaped like an endpoint key", Data{Nodes: []Node{{Name: "a"}, {Name: "b"}}, Links: []Link{{Source: 0, Target: 1}, {ID: "0-1", Source: 1, Target: 0}}}, "links", 1},
		{"id shaped like a repeat key", Data{Nodes: []Node{{Name: "a"}}, Links: []Link{{ID: "0-0#1", Source: 0, Target: 0}}}, "links", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if !errors.Is(err, ErrInvalidData) {
				t.Fatalf("Validate() = %v, want ErrInvalidData", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want a *ValidationError", err)
			}
			if verr.Field != tt.field || verr.Index != tt.index {
				t.Errorf("got %s[%d], want %s[%d]", verr.Field, verr.Index, tt.field, tt.index)
			}
		})
	}

	if err := sample().Validate(); err != nil {
		t.Errorf("sample().Validate() = %v", err)
	}
}

func TestResolve(t *testing.T) {
	d := sample()
	edges, err := Resolve(d.Nodes, d.Links)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != len(d.Links) {
		t.Fatalf("got %d edges, want %d", len(edges), len(d.Links))
	}
	for i, e := range edges {
		l := d.Links[i]
		if e.Source != &d.Nodes[l.Source] || e.Target != &d.Nodes[l.Target] {
			t.Errorf("edge %d does not reference nodes %d and %d", i, l.Source, l.Target)
		}
		if e.Value != l.Value {
			t.Errorf("edge %d value = %d, want %d", i, e.Value, l.Value)
		}
	}
	// Links keep their indices so the data can be resolved again.
	if d.Links[0].Source != 0 || d.Links[0].Target != 1 {
		t.Errorf("links were modified: %+v", d.Links[0])
	}

	_, err = Resolve(d.Nodes, []Link{{Source: 0, Target: 99}})
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("Resolve() with bad index = %v, want ErrInvalidData", err)
	}
}

func TestIsAutoKey(t *testing.T) {
	tests := map[string]bool{
		"0-1":    true,
		"12-3#4": true,
		"custom": false,
		"0-":     false,
		"a-1":    false,
		"0-1#":   false,
		"0-1-2":  false,
		"-1-2":   false,
	}
	for key, want := range tests {
		if got := IsAutoKey(key); got != want {
			t.Errorf("IsAutoKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestLinkKeys(t *testing.T) {
	keys := LinkKeys([]Link{
		{Source: 0, Target: 1},
		{Source: 0, Target: 1},
		{ID: "custom", Source: 0, Target: 1},
		{Source: 1, Target: 0},
		{Source: 0, Target: 1},
	})
	want := []string{"0-1", "0-1#1", "custom", "1-0", "0-1#2"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestDecode(t *testing.T) {
	doc := `{"nodes":[{"name":"a","subs":3},{"name":"b","subs":1,"adult":true}],"links":[{"source":0,"target":1,"value":2}]}`
	d, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Nodes) != 2 || len(d.Links) != 1 || !d.Nodes[1].Adult || d.Links[0].Value != 2 {
		t.Errorf("unexpected decode result: %+v", d)
	}

	_, err = Decode(strings.NewReader(`{"nodes":[{"name":"a"}],"links":[{"source":0,"target":3}]}`))
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("Decode() = %v, want ErrInvalidData", err)
	}
	if _, err := Decode(strings.NewReader(`{`)); err == nil {
		t.Error("Decode() of truncated json should fail")
	}
}

func names(d Data) map[string]bool {
	m := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		m[n.Name] = true
	}
	return m
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		query     Query
		wantNodes []string
		wantLinks int
	}{
		{"depth one", Query{Seed: "python", Depth: 1}, []string{"python", "learnpython", "django"}, 2},
		{"depth two walks parents", Query{Seed: "python", Depth: 2}, []string{"python", "learnpython", "django", "flask", "programming"}, 5},
		{"nsfw keeps adult nodes", Query{Seed: "python", Depth: 1, NSFW: true}, []string{"python", "learnpython", "django", "nsfwpython"}, 3},
		{"min subs", Query{Seed: "python", Depth: 2, MinSubs: 9}, []string{"python", "learnpython", "programming"}, 2},
		{"seed is case insensitive", Query{Seed: "PYTHON", Depth: 1}, []string{"python", "learnpython", "django"}, 2},
		{"depth is clamped", Query{Seed: "flask", Depth: 0}, []string{"flask"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(sample(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if err := got.Validate(); err != nil {
				t.Fatalf("extracted data is invalid: %v", err)
			}
			have := names(got)
			if len(have) != len(tt.wantNodes) {
				t.Errorf("got nodes %v, want %v", have, tt.wantNodes)
			}
			for _, n := range tt.wantNodes {
				if !have[n] {
					t.Errorf("missing node %q in %v", n, have)
				}
			}
			if len(got.Links) != tt.wantLinks {
				t.Errorf("got %d links, want %d: %+v", len(got.Links), tt.wantLinks, got.Links)
			}
			if got.Nodes[0].Name != sample().Nodes[indexOf(tt.query.Seed)].Name {
				t.Errorf("seed is not the first node: %q", got.Nodes[0].Name)
			}
		})
	}

	_, err := Extract(sample(), Query{Seed: "golang", Depth: 1})
	if !errors.Is(err, ErrUnknownSeed) {
		t.Errorf("Extract() = %v, want ErrUnknownSeed", err)
	}
}

func indexOf(seed string) int {
	for i, n := range sample().Nodes {
		if strings.EqualFold(n.Name, seed) {
			return i
		}
	}
	return -1
}

func TestClampDepth(t *testing.T) {
	for in, want := range map[int]int{-2: 1, 0: 1, 1: 1, 2: 2, 3: 3, 10: 3} {
		if got := ClampDepth(in); got != want {
			t.Errorf("ClampDepth(%d) = %d, want %d", in, got, want)
		}
	}
}
