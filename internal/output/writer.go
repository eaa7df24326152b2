// Package output writes a laid out graph to files in several formats.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"golang.org/x/net/html"

	"github.com/psidex/subgraph/internal/render"
)

// Source is a drawing to write out, render.Renderer is one.
type Source interface {
	Snapshot() render.Snapshot
	Document() *html.Node
}

var _ Source = (*render.Renderer)(nil)

// Writer renders a drawing in one format.
type Writer interface {
	// Write is not assumed to be thread-safe.
	Write(w io.Writer, src Source) error
	// Ext is the file extension including the dot.
	Ext() string
}

var writers = map[string]Writer{
	"html":      HTML{Title: "subgraph"},
	"svg":       SVG{},
	"png":       PNG{},
	"echarts":   ECharts{Title: "subgraph"},
	"json":      Graphology{},
	"adjacency": Adjacency{},
	"vis":       Vis{Title: "subgraph", Replay: 50 * time.Millisecond},
}

// Formats lists the names Get accepts.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Get(format string) (Writer, error) {
	w, ok := writers[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q, expected one of %v", format, Formats())
	}
	return w, nil
}

// RenderToFile writes src to filename plus the writer's extension and returns the
// name of the file written. filename should be the desired file name without an
// extension.
func RenderToFile(wr Writer, src Source, filename string) (string, error) {
	filename = filename + wr.Ext()

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := wr.Write(f, src); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	return filename, f.Close()
}
