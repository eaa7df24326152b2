package graph

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks nodes and links at the input boundary. The returned error wraps
// ErrInvalidData and a *ValidationError describing the first offending record.
func Validate(nodes []Node, links []Link) error {
	names := make(map[string]int, len(nodes))
	for i, n := range nodes {
		switch {
		case n.Name == "":
			return invalid("nodes", i, "empty name")
		case math.IsNaN(n.Subs) || math.IsInf(n.Subs, 0):
			return invalid("nodes", i, "subs is not finite")
		case n.Subs < 0:
			return invalid("nodes", i, "subs is negative")
		}
		if first, ok := names[n.Name]; ok {
			return invalid("nodes", i, fmt.Sprintf("name %q already used by nodes[%d]", n.Name, first))
		}
		names[n.Name] = i
	}
	ids := make(map[string]int)
	for i, l := range links {
		if err := checkIndex(i, "source", l.Source, len(nodes)); err != nil {
			return err
		}
		if err := checkIndex(i, "target", l.Target, len(nodes)); err != nil {
			return err
		}
		if l.ID == "" {
			continue
		}
		if IsAutoKey(l.ID) {
			return invalid("links", i, fmt.Sprintf("id %q has the form of an endpoint key", l.ID))
		}
		if first, ok := ids[l.ID]; ok {
			return invalid("links", i, fmt.Sprintf("id %q already used by links[%d]", l.ID, first))
		}
		ids[l.ID] = i
	}
	return nil
}

// Validate is shorthand for Validate(d.Nodes, d.Links).
func (d Data) Validate() error {
	return Validate(d.Nodes, d.Links)
}

func checkIndex(i int, end string, idx, n int) error {
	if idx < 0 || idx >= n {
		return invalid("links", i, fmt.Sprintf("%s index %d out of range [0, %d)", end, idx, n))
	}
	return nil
}

func invalid(field string, index int, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidData, &ValidationError{Field: field, Index: index, Reason: reason})
}

// IsAutoKey reports whether key has the form LinkKeys gives links without an ID,
// "s-t" or "s-t#n". Such keys are reserved so an explicit ID never joins onto
// another link's element.
func IsAutoKey(key string) bool {
	pair, repeat, hasRepeat := strings.Cut(key, "#")
	if hasRepeat && !digits(repeat) {
		return false
	}
	s, t, ok := strings.Cut(pair, "-")
	return ok && digits(s) && digits(t)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
