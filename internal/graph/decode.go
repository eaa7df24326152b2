package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a JSON document of the form {"nodes": [...], "links": [...]} and
// validates it.
func Decode(r io.Reader) (Data, error) {
	var d Data
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return Data{}, fmt.Errorf("decoding graph: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Load decodes the graph stored in the file at path.
func Load(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
