// Package graph defines the node/link records rendered by subgraph, along with
// validation, endpoint resolution and neighbourhood extraction.
package graph

import (
	"errors"
	"fmt"
	"strconv"
)

// Node is a single community in the graph.
type Node struct {
	// Name is both the label and the path segment of the node's hyperlink.
	Name string `json:"name"`
	// Subs is the rendered circle radius.
	Subs  float64 `json:"subs"`
	Adult bool    `json:"adult,omitempty"`

	// X and Y are written by the layout, Fixed is set while the node is dragged.
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Fixed bool    `json:"-"`
}

// Link references two nodes by their index in Data.Nodes.
type Link struct {
	// ID is optional, when set it is used as the link's identity in joins. IDs must be
	// unique and must not look like an endpoint key ("0-1", "0-1#2").
	ID     string `json:"id,omitempty"`
	Source int    `json:"source"`
	Target int    `json:"target"`
	// Value is the link category, it picks the edge colour.
	Value int `json:"value"`
}

// Data is the in-memory graph handed to a renderer.
type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Edge is a Link whose endpoints have been resolved to nodes.
type Edge struct {
	Key         string
	Source      *Node
	Target      *Node
	SourceIndex int
	TargetIndex int
	Value       int
}

var (
	ErrInvalidData = errors.New("invalid graph data")
	ErrUnknownSeed = errors.New("unknown seed")
)

// ValidationError describes the first problem found in a Data value.
type ValidationError struct {
	Field  string // "nodes" or "links"
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Reason)
}

// LinkKeys returns the join key of each link. Links without an ID are keyed by
// their endpoints, with a "#n" suffix for the nth repeat of the same pair.
func LinkKeys(links []Link) []string {
	keys := make([]string, len(links))
	seen := make(map[string]int, len(links))
	for i, l := range links {
		if l.ID != "" {
			keys[i] = l.ID
			continue
		}
		k := strconv.Itoa(l.Source) + "-" + strconv.Itoa(l.Target)
		if n := seen[k]; n > 0 {
			keys[i] = k + "#" + strconv.Itoa(n)
		} else {
			keys[i] = k
		}
		seen[k]++
	}
	return keys
}
