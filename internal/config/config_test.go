package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/psidex/subgraph/internal/batch"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Force.Charge != -2000 || cfg.Force.LinkDistance != 60 || cfg.Force.Gravity != 0.1 {
		t.Errorf("force = %+v, want charge -2000, distance 60, gravity 0.1", cfg.Force)
	}
	if cfg.Render.LinkTemplate != "http://reddit.com/r/%s" {
		t.Errorf("link_template = %q", cfg.Render.LinkTemplate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serve.Address != DefaultConfig().Serve.Address {
		t.Errorf("address = %q, want default", cfg.Serve.Address)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subgraph.yaml")
	yaml := `
log_level: debug
render:
  viewport:
    width: 800
    height: 600
  layout: eades
force:
  charge: -500
serve:
  tick_interval: 40ms
  max_runtime: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUBGRAPH_FORCE__CHARGE", "-750")
	t.Setenv("SUBGRAPH_SERVE__ADDRESS", ":9000")
	t.Setenv("SUBGRAPH_OUTPUT__FORMAT", "svg")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"log_level", cfg.LogLevel, "debug"},
		{"viewport width", cfg.Render.Viewport.Width, 800.0},
		{"layout", cfg.Render.Layout, batch.LayoutEades},
		{"env beats file", cfg.Force.Charge, -750.0},
		{"untouched default", cfg.Force.LinkDistance, 60.0},
		{"tick_interval", cfg.Serve.TickInterval.Duration, 40 * time.Millisecond},
		{"max_runtime", cfg.Serve.MaxRuntime.Duration, 2 * time.Minute},
		{"address", cfg.Serve.Address, ":9000"},
		{"format", cfg.Output.Format, "svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subgraph.yaml")
	if err := os.WriteFile(path, []byte("render: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"link template", func(c *Config) { c.Render.LinkTemplate = "reddit.com/r/" }, "link_template"},
		{"viewport", func(c *Config) { c.Render.Viewport.Height = 0 }, "viewport"},
		{"layout", func(c *Config) { c.Render.Layout = "circle" }, "layout"},
		{"friction", func(c *Config) { c.Force.Friction = 2 }, "force"},
		{"eades", func(c *Config) { c.Eades.Updates = 0 }, "eades"},
		{"format", func(c *Config) { c.Output.Format = "gif" }, "output.format"},
		{"address", func(c *Config) { c.Serve.Address = "localhost" }, "serve.address"},
		{"grpc port", func(c *Config) { c.Serve.GRPCAddress = ":70000" }, "grpc_address"},
		{"runtime", func(c *Config) { c.Serve.MaxRuntime.Duration = 0 }, "max_runtime"},
		{"quality", func(c *Config) { c.Snapshot.Quality = 101 }, "quality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestDialAddress(t *testing.T) {
	tests := []struct {
		bind string
		want string
	}{
		{":50051", "127.0.0.1:50051"},
		{"0.0.0.0:80", "127.0.0.1:80"},
		{"10.0.0.2:8080", "10.0.0.2:8080"},
		{"[::]:8080", "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		got, err := DialAddress(tt.bind)
		if err != nil || got != tt.want {
			t.Errorf("DialAddress(%q) = %q, %v, want %q", tt.bind, got, err, tt.want)
		}
	}

	u, err := PageURL(":8080", "golang")
	if err != nil || u != "http://127.0.0.1:8080/?seed=golang" {
		t.Errorf("PageURL() = %q, %v", u, err)
	}
}
