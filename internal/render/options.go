package render

import (
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"

	"github.com/psidex/subgraph/internal/force"
)

const (
	DefaultContainerID  = "graph"
	DefaultLinkTemplate = "http://reddit.com/r/%s"

	// MarginX and MarginY are taken off the viewport to leave some whitespace.
	MarginX = 20
	MarginY = 100
)

// Viewport is the size of the window the graph is shown in.
type Viewport struct {
	Width  float64 `json:"width" koanf:"width"`
	Height float64 `json:"height" koanf:"height"`
}

// Surface returns the drawing surface for a viewport. It is measured once, the
// surface does not follow later changes to the viewport.
func (v Viewport) Surface() (width, height float64) {
	return math.Max(v.Width-MarginX, 1), math.Max(v.Height-MarginY, 1)
}

type Options struct {
	ContainerID string
	// LinkTemplate is a fmt template receiving the node name.
	LinkTemplate string
	Viewport     Viewport
	// Force tunes the layout, its canvas size is replaced by the drawing surface.
	Force force.Config
	// Seed fixes the initial node placement when non zero.
	Seed   int64
	Logger *slog.Logger
}

// DefaultOptions lays out with link distance 60, charge -2000 and gravity 0.1.
func DefaultOptions() Options {
	f := force.DefaultConfig()
	f.LinkDistance = 60
	f.Charge = -2000
	f.Gravity = 0.1
	return Options{
		ContainerID:  DefaultContainerID,
		LinkTemplate: DefaultLinkTemplate,
		Viewport:     Viewport{Width: 1280, Height: 800},
		Force:        f,
	}
}

// ValidateLinkTemplate checks that tmpl has a single %s verb and expands to an
// absolute http(s) URL.
func ValidateLinkTemplate(tmpl string) error {
	if strings.Count(tmpl, "%s") != 1 || strings.Count(tmpl, "%") != 1 {
		return fmt.Errorf("link template %q must contain exactly one %%s", tmpl)
	}
	u, err := url.Parse(fmt.Sprintf(tmpl, "name"))
	if err != nil {
		return fmt.Errorf("link template %q: %w", tmpl, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("link template %q is not an absolute http(s) URL", tmpl)
	}
	return nil
}
