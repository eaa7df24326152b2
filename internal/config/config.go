// Package config loads subgraph's settings from defaults, an optional YAML file and
// SUBGRAPH_ environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/psidex/subgraph/internal/batch"
	"github.com/psidex/subgraph/internal/browser"
	"github.com/psidex/subgraph/internal/force"
	"github.com/psidex/subgraph/internal/lib"
	"github.com/psidex/subgraph/internal/live"
	"github.com/psidex/subgraph/internal/output"
	"github.com/psidex/subgraph/internal/render"
)

const (
	DefaultPath = "subgraph.yaml"
	EnvPrefix   = "SUBGRAPH_"
)

type Config struct {
	LogLevel string `koanf:"log_level"`
	// Data is the graph file served and rendered when no other is given.
	Data     string            `koanf:"data"`
	Render   RenderConfig      `koanf:"render"`
	Force    force.Config      `koanf:"force"`
	Eades    force.EadesConfig `koanf:"eades"`
	Output   OutputConfig      `koanf:"output"`
	Serve    ServeConfig       `koanf:"serve"`
	Snapshot SnapshotConfig    `koanf:"snapshot"`
}

type RenderConfig struct {
	ContainerID  string          `koanf:"container_id"`
	LinkTemplate string          `koanf:"link_template"`
	Viewport     render.Viewport `koanf:"viewport"`
	// Seed fixes the initial placement, 0 picks a random one.
	Seed     int64  `koanf:"seed"`
	MaxTicks int    `koanf:"max_ticks"`
	// Layout is "d3" or "eades".
	Layout string `koanf:"layout"`
}

type OutputConfig struct {
	Format string `koanf:"format"`
	// Dir is where rendered files go, next to their input when empty.
	Dir string `koanf:"dir"`
}

type ServeConfig struct {
	Address         string       `koanf:"address"`
	GRPCAddress     string       `koanf:"grpc_address"`
	AllowAllOrigins bool         `koanf:"allow_all_origins"`
	TickInterval    lib.Duration `koanf:"tick_interval"`
	MinTickInterval lib.Duration `koanf:"min_tick_interval"`
	MaxRuntime      lib.Duration `koanf:"max_runtime"`
	Watch           bool         `koanf:"watch"`
	Debounce        lib.Duration `koanf:"debounce"`
}

type SnapshotConfig struct {
	Window    render.Viewport `koanf:"window"`
	Timeout   lib.Duration    `koanf:"timeout"`
	UserAgent string          `koanf:"user_agent"`
	Quality   int             `koanf:"quality"`
}

func DefaultConfig() *Config {
	ro := render.DefaultOptions()
	lc := live.DefaultConfig()
	bc := browser.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Data:     "graph.json",
		Render: RenderConfig{
			ContainerID:  ro.ContainerID,
			LinkTemplate: ro.LinkTemplate,
			Viewport:     ro.Viewport,
			MaxTicks:     lc.MaxTicks,
			Layout:       batch.LayoutD3,
		},
		Force: ro.Force,
		Eades: force.DefaultEadesConfig(),
		Output: OutputConfig{
			Format: "html",
		},
		Serve: ServeConfig{
			Address:         "127.0.0.1:8080",
			GRPCAddress:     "127.0.0.1:50051",
			TickInterval:    lib.DurationFrom(lc.TickInterval),
			MinTickInterval: lib.DurationFrom(lc.MinTickInterval),
			MaxRuntime:      lib.DurationFrom(lc.MaxRuntime),
			Debounce:        lib.DurationFrom(500 * time.Millisecond),
		},
		Snapshot: SnapshotConfig{
			Window:  bc.Window,
			Timeout: lib.DurationFrom(bc.Timeout),
			Quality: bc.Quality,
		},
	}
}

// Load reads path over the defaults, then overlays SUBGRAPH_ environment variables.
// A missing file is not an error. A double underscore in a variable name separates
// levels, SUBGRAPH_FORCE__CHARGE sets force.charge.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validLayouts = map[string]bool{
	batch.LayoutD3:    true,
	batch.LayoutEades: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, err := lib.ParseSLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Render.ContainerID == "" {
		return fmt.Errorf("render.container_id is required")
	}
	if err := render.ValidateLinkTemplate(c.Render.LinkTemplate); err != nil {
		return fmt.Errorf("render.link_template: %w", err)
	}
	if c.Render.Viewport.Width <= 0 || c.Render.Viewport.Height <= 0 {
		return fmt.Errorf("render.viewport must be positive")
	}
	if c.Render.MaxTicks <= 0 {
		return fmt.Errorf("render.max_ticks must be positive")
	}
	if !validLayouts[c.Render.Layout] {
		return fmt.Errorf("invalid render.layout %q: must be one of d3, eades", c.Render.Layout)
	}

	f := c.Force
	// The canvas comes from the viewport, only the other constants are checked.
	f.Width, f.Height = 1, 1
	if err := f.Validate(); err != nil {
		return fmt.Errorf("force: %w", err)
	}
	if c.Eades.Updates <= 0 || c.Eades.Rate <= 0 || c.Eades.Repulsion < 0 || c.Eades.Theta < 0 {
		return fmt.Errorf("eades: updates and rate must be positive, repulsion and theta non-negative")
	}

	if _, err := output.Get(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if err := checkAddress(c.Serve.Address); err != nil {
		return fmt.Errorf("serve.address: %w", err)
	}
	if c.Serve.GRPCAddress != "" {
		if err := checkAddress(c.Serve.GRPCAddress); err != nil {
			return fmt.Errorf("serve.grpc_address: %w", err)
		}
	}
	if c.Serve.TickInterval.Duration <= 0 || c.Serve.MinTickInterval.Duration <= 0 {
		return fmt.Errorf("serve tick intervals must be positive")
	}
	if c.Serve.MaxRuntime.Duration <= 0 {
		return fmt.Errorf("serve.max_runtime must be positive")
	}
	if c.Serve.Debounce.Duration < 0 {
		return fmt.Errorf("serve.debounce must be non-negative")
	}

	if c.Snapshot.Window.Width <= 0 || c.Snapshot.Window.Height <= 0 {
		return fmt.Errorf("snapshot.window must be positive")
	}
	if c.Snapshot.Timeout.Duration <= 0 {
		return fmt.Errorf("snapshot.timeout must be positive")
	}
	if c.Snapshot.Quality < 0 || c.Snapshot.Quality > 100 {
		return fmt.Errorf("snapshot.quality must be within [0, 100]")
	}
	return nil
}

// Logger builds the logger named by log_level.
func (c *Config) Logger() (*slog.Logger, error) {
	return lib.LevelLogger(os.Stderr, c.LogLevel)
}

// RenderOptions is the renderer configuration for a viewport.
func (c *Config) RenderOptions(logger *slog.Logger) render.Options {
	return render.Options{
		ContainerID:  c.Render.ContainerID,
		LinkTemplate: c.Render.LinkTemplate,
		Viewport:     c.Render.Viewport,
		Force:        c.Force,
		Seed:         c.Render.Seed,
		Logger:       logger,
	}
}

func (c *Config) Live(logger *slog.Logger) live.Config {
	return live.Config{
		Render:          c.RenderOptions(logger),
		TickInterval:    c.Serve.TickInterval.Duration,
		MinTickInterval: c.Serve.MinTickInterval.Duration,
		MaxRuntime:      c.Serve.MaxRuntime.Duration,
		MaxTicks:        c.Render.MaxTicks,
		AllowAllOrigins: c.Serve.AllowAllOrigins,
		Logger:          logger,
	}
}

func (c *Config) Browser() browser.Config {
	return browser.Config{
		Window:    c.Snapshot.Window,
		Timeout:   c.Snapshot.Timeout.Duration,
		UserAgent: c.Snapshot.UserAgent,
		Quality:   c.Snapshot.Quality,
	}
}
