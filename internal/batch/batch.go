// Package batch renders many graph files with a pool of workers.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/psidex/subgraph/internal/force"
	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/lib"
	"github.com/psidex/subgraph/internal/output"
	"github.com/psidex/subgraph/internal/render"
)

const (
	LayoutD3    = "d3"
	LayoutEades = "eades"
)

type Config struct {
	WorkerCount uint
	Options     render.Options
	// Layout is LayoutD3 for the renderer's own simulation or LayoutEades.
	Layout   string
	Eades    force.EadesConfig
	MaxTicks int
	// Query, when it has a seed, renders only that neighbourhood of each file.
	Query  graph.Query
	Writer output.Writer
	// OutDir holds the written files, each input's own directory when empty.
	OutDir string
	Logger *slog.Logger
}

// Result is the outcome of rendering one input file.
type Result struct {
	Input    string
	Output   string
	Nodes    int
	Links    int
	Ticks    int
	Duration time.Duration
	Err      error
}

type Batch struct {
	cfg     Config
	log     *slog.Logger
	jobs    *lib.Queue[string]
	results chan Result
	// Set / reset at the start of Run().
	cancel     chan struct{}
	cancelOnce *sync.Once
	wg         *sync.WaitGroup
}

func New(cfg Config) *Batch {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = 1000
	}
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Batch{cfg: cfg, log: l}
}

// Run starts the workers on inputs. The returned channel gets one Result per input
// and is closed once every worker has exited.
func (b *Batch) Run(inputs []string) <-chan Result {
	b.jobs = lib.NewQueue[string]()
	for _, in := range inputs {
		b.jobs.Enqueue(in)
	}
	b.results = make(chan Result, len(inputs))
	b.cancel = make(chan struct{})
	b.cancelOnce = &sync.Once{}
	b.wg = &sync.WaitGroup{}

	for i := uint(1); i <= b.cfg.WorkerCount; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
	go func() {
		b.wg.Wait()
		close(b.results)
	}()
	return b.results
}

// Cancel stops the workers once they have finished their current file, and blocks
// until they have exited. It does nothing before Run and may be called more than once.
func (b *Batch) Cancel() {
	if b.cancel == nil {
		return
	}
	b.cancelOnce.Do(func() { close(b.cancel) })
	b.wg.Wait()
}

func (b *Batch) worker(id uint) {
	defer b.wg.Done()

	for {
		select {
		case <-b.cancel:
			b.log.Debug("worker canceled", "worker", id)
			return
		default:
		}

		input, ok := b.jobs.Dequeue()
		if !ok {
			return
		}
		b.log.Debug("rendering file", "worker", id, "file", input, "left", b.jobs.Size())
		b.results <- RenderFile(b.cfg, input)
	}
}

// RenderFile loads, lays out and writes a single file.
func RenderFile(cfg Config, input string) Result {
	start := time.Now()
	res := Result{Input: input}
	fail := func(err error) Result {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	d, err := graph.Load(input)
	if err != nil {
		return fail(err)
	}
	if cfg.Query.Seed != "" {
		if d, err = graph.Extract(d, cfg.Query); err != nil {
			return fail(err)
		}
	}
	res.Nodes, res.Links = len(d.Nodes), len(d.Links)

	r := render.New(cfg.Options)
	if err := r.Render(d); err != nil {
		return fail(err)
	}
	if res.Ticks, err = Layout(context.Background(), r, cfg); err != nil {
		return fail(err)
	}

	res.Output, err = output.RenderToFile(cfg.Writer, r, OutputName(cfg.OutDir, input))
	if err != nil {
		return fail(err)
	}
	res.Duration = time.Since(start)
	return res
}

// Layout positions a rendered graph and returns the number of ticks it took.
func Layout(ctx context.Context, r *render.Renderer, cfg Config) (int, error) {
	switch cfg.Layout {
	case "", LayoutD3:
		return r.Settle(cfg.MaxTicks), nil
	case LayoutEades:
		snap := r.Snapshot()
		springs := make([]force.Spring, len(snap.Edges))
		for i, e := range snap.Edges {
			springs[i] = force.Spring{Source: e.Source, Target: e.Target}
		}
		fc := cfg.Options.Force
		fc.Width, fc.Height = r.Size()
		seed := uint64(cfg.Options.Seed)
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		l := render.Loop{
			Stepper:  force.NewEades(fc, cfg.Eades, len(snap.Nodes), springs, seed),
			Target:   r,
			MaxTicks: cfg.MaxTicks,
		}
		n, err := l.Run(ctx)
		r.Simulation().Stop()
		return n, err
	}
	return 0, fmt.Errorf("unknown layout %q", cfg.Layout)
}

// OutputName is the output path of input without an extension: its stem, in dir or
// next to the input when dir is empty.
func OutputName(dir, input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem)
}
