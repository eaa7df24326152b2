package live

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/lib"
	"github.com/psidex/subgraph/internal/render"
)

var ErrSessionConfig = errors.New("invalid session config")

// SessionConfig is the first message a client sends on /ws.
type SessionConfig struct {
	Viewport render.Viewport `json:"viewport"`
	// Seed picks the subgraph around one subreddit, the whole graph is drawn when
	// empty.
	Seed    string  `json:"seed"`
	Depth   int     `json:"depth"`
	NSFW    bool    `json:"nsfw"`
	MinSubs float64 `json:"minSubs"`
	// TickInterval is the time between ticks sent to the client.
	TickInterval lib.Duration `json:"tickInterval"`
	// Runtime ends the session after this long.
	Runtime lib.Duration `json:"runtime"`
}

// Query is the extraction the session asks for.
func (c SessionConfig) Query() graph.Query {
	return graph.Query{
		Seed:    c.Seed,
		Depth:   graph.ClampDepth(c.Depth),
		NSFW:    c.NSFW,
		MinSubs: c.MinSubs,
	}
}

// withDefaults fills zero values from the server config and caps the runtime.
func (c SessionConfig) withDefaults(sc Config) SessionConfig {
	if c.Viewport.Width == 0 && c.Viewport.Height == 0 {
		c.Viewport = sc.Render.Viewport
	}
	if c.TickInterval.Duration == 0 {
		c.TickInterval = lib.DurationFrom(sc.TickInterval)
	}
	if c.TickInterval.Duration < sc.MinTickInterval {
		c.TickInterval = lib.DurationFrom(sc.MinTickInterval)
	}
	if c.Runtime.Duration == 0 || c.Runtime.Duration > sc.MaxRuntime {
		c.Runtime = lib.DurationFrom(sc.MaxRuntime)
	}
	return c
}

func (c SessionConfig) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("%w: viewport %vx%v", ErrSessionConfig, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth %d", ErrSessionConfig, c.Depth)
	}
	if c.MinSubs < 0 {
		return fmt.Errorf("%w: minSubs %v", ErrSessionConfig, c.MinSubs)
	}
	if c.TickInterval.Duration < 0 || c.Runtime.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrSessionConfig)
	}
	return nil
}

// Config configures a Server.
type Config struct {
	// Render is the base for every session's renderer, sessions replace the viewport.
	Render render.Options
	// TickInterval is used when a session does not ask for one.
	TickInterval time.Duration
	// MinTickInterval stops clients from asking for a busy loop.
	MinTickInterval time.Duration
	// MaxRuntime caps how long a session stays open.
	MaxRuntime time.Duration
	// MaxTicks stops a session's simulation after this many ticks without settling.
	MaxTicks int
	// AllowAllOrigins turns off the CORS origin list, for development.
	AllowAllOrigins bool
	Logger          *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Render:          render.DefaultOptions(),
		TickInterval:    16 * time.Millisecond,
		MinTickInterval: 5 * time.Millisecond,
		MaxRuntime:      10 * time.Minute,
		MaxTicks:        1000,
	}
}
