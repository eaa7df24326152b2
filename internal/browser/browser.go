// Package browser drives a headless Chrome to measure the viewport a page is shown in
// and to screenshot rendered graphs.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/corpix/uarand"

	"github.com/psidex/subgraph/internal/render"
)

// ErrNoChrome is returned when no Chrome binary can be found.
var ErrNoChrome = errors.New("no chrome binary found")

var chromeNames = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
}

// FindChrome returns the path of the first Chrome binary on PATH.
func FindChrome() (string, error) {
	for _, name := range chromeNames {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", ErrNoChrome
}

type Config struct {
	// Window is the size of the browser window, it is what MeasureViewport reports
	// once scrollbars and chrome are taken off.
	Window render.Viewport
	// Timeout bounds each browser run.
	Timeout time.Duration
	// UserAgent is sent with every request, a random desktop agent when empty.
	UserAgent string
	// Quality of the full page screenshot, 100 gives a lossless PNG.
	Quality int
}

func DefaultConfig() Config {
	return Config{
		Window:  render.Viewport{Width: 1280, Height: 800},
		Timeout: 30 * time.Second,
		Quality: 100,
	}
}

// Browser starts a new Chrome for every run.
type Browser struct {
	cfg Config
}

func New(cfg Config) *Browser {
	if cfg.UserAgent == "" {
		cfg.UserAgent = uarand.GetRandom()
	}
	return &Browser{cfg}
}

func (b *Browser) UserAgent() string {
	return b.cfg.UserAgent
}

func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer timeoutCancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.cfg.UserAgent),
		chromedp.WindowSize(int(b.cfg.Window.Width), int(b.cfg.Window.Height)),
	)
	if path, err := FindChrome(); err == nil {
		opts = append(opts, chromedp.ExecPath(path))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	return chromedp.Run(taskCtx, actions...)
}

// MeasureViewport reports the size of the page's viewport, the larger of the document
// client size and the window's inner size.
func (b *Browser) MeasureViewport(ctx context.Context) (render.Viewport, error) {
	var vp render.Viewport
	err := b.run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.Evaluate(`({
			width: Math.max(document.documentElement.clientWidth, window.innerWidth || 0),
			height: Math.max(document.documentElement.clientHeight, window.innerHeight || 0)
		})`, &vp),
	)
	if err != nil {
		return render.Viewport{}, fmt.Errorf("measure viewport: %w", err)
	}
	return vp, nil
}

// Capture is a screenshot and what it took to load the page.
type Capture struct {
	PNG []byte
	// DownloadedBytes counts every response the page loaded, scripts and fonts included.
	DownloadedBytes int64
	Duration        time.Duration
}

// Screenshot loads url and captures the whole page once the graph element is visible.
func (b *Browser) Screenshot(ctx context.Context, url, selector string) (Capture, error) {
	startTime := time.Now()
	var c Capture
	// Listeners run on chromedp's event goroutine.
	var downloaded atomic.Int64

	countBytes := func(ctx context.Context) error {
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			switch ev := ev.(type) {
			case *network.EventLoadingFinished:
				downloaded.Add(int64(ev.EncodedDataLength))
			}
		})
		return nil
	}

	err := b.run(ctx,
		network.Enable(),
		chromedp.ActionFunc(countBytes),
		chromedp.Navigate(url),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.FullScreenshot(&c.PNG, b.cfg.Quality),
	)
	if err != nil {
		return Capture{}, fmt.Errorf("screenshot %s: %w", url, err)
	}
	c.DownloadedBytes = downloaded.Load()
	c.Duration = time.Since(startTime)
	return c, nil
}
