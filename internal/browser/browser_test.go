package browser

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/psidex/subgraph/internal/render"
)

func requireChrome(t *testing.T) {
	t.Helper()
	if _, err := FindChrome(); err != nil {
		t.Skip("chrome is not installed")
	}
}

func TestNewPicksUserAgent(t *testing.T) {
	if New(DefaultConfig()).UserAgent() == "" {
		t.Error("no user agent picked")
	}
	cfg := DefaultConfig()
	cfg.UserAgent = "subgraph-test"
	if got := New(cfg).UserAgent(); got != "subgraph-test" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestMeasureViewport(t *testing.T) {
	requireChrome(t)
	cfg := DefaultConfig()
	cfg.Window = render.Viewport{Width: 800, Height: 600}
	vp, err := New(cfg).MeasureViewport(context.Background())
	if err != nil {
		t.Fatalf("MeasureViewport() error = %v", err)
	}
	if vp.Width <= 0 || vp.Width > 800 || vp.Height <= 0 || vp.Height > 600 {
		t.Errorf("viewport = %+v, want within 800x600", vp)
	}
}

func TestScreenshot(t *testing.T) {
	requireChrome(t)
	var agent atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div id="graph"><svg width="100" height="100"></svg></div></body></html>`))
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "subgraph-test"
	cfg.Timeout = 20 * time.Second
	c, err := New(cfg).Screenshot(context.Background(), ts.URL, "#graph")
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if !bytes.HasPrefix(c.PNG, []byte("\x89PNG")) {
		t.Error("screenshot is not a PNG")
	}
	if got, _ := agent.Load().(string); got != "subgraph-test" {
		t.Errorf("page was loaded with user agent %q", got)
	}
	// Counted on chromedp's event goroutine, read here once the run is over.
	if c.DownloadedBytes <= 0 {
		t.Errorf("DownloadedBytes = %d, want the page's size", c.DownloadedBytes)
	}
}
