package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/psidex/subgraph/internal/batch"
	"github.com/psidex/subgraph/internal/output"
	"github.com/psidex/subgraph/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		format     string
		outDir     string
		layout     string
		randomSeed int64
		workers    uint
		q          queryFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file or glob...]",
		Short: "Lay out graph files and write them as html, svg, png, echarts, vis or json",
		Long: `Render decodes each graph file, lets its layout settle and writes it in the
chosen format next to the input, or into --out.

  subgraph render graph.json
  subgraph render 'data/**/*.json' --format svg --out build
  subgraph render graph.json --seed golang --depth 2 --format png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if cmd.Flags().Changed("out") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("layout") {
				cfg.Render.Layout = layout
			}
			if cmd.Flags().Changed("random-seed") {
				cfg.Render.Seed = randomSeed
			}
			wr, err := output.Get(cfg.Output.Format)
			if err != nil {
				return err
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = []string{cfg.Data}
			}
			inputs, err := expandGlobs(patterns)
			if err != nil {
				return err
			}
			if cfg.Output.Dir != "" {
				if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
					return err
				}
			}

			ui.Banner(os.Stderr, fmt.Sprintf("rendering %d file(s) as %s", len(inputs), cfg.Output.Format))

			b := batch.New(batch.Config{
				WorkerCount: workers,
				Options:     cfg.RenderOptions(logger),
				Layout:      cfg.Render.Layout,
				Eades:       cfg.Eades,
				MaxTicks:    cfg.Render.MaxTicks,
				Query:       q.query(),
				Writer:      wr,
				OutDir:      cfg.Output.Dir,
				Logger:      logger,
			})

			bar := progressbar.NewOptions(len(inputs),
				progressbar.OptionSetDescription("Rendering"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var results []batch.Result
			for r := range b.Run(inputs) {
				results = append(results, r)
				bar.Describe(filepath.Base(r.Input))
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			return printResults(results)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", fmt.Sprintf("output format, one of %v", output.Formats()))
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write to, next to each input when empty")
	cmd.Flags().StringVar(&layout, "layout", batch.LayoutD3, "layout to settle with, d3 or eades")
	cmd.Flags().Int64Var(&randomSeed, "random-seed", 0, "fixes the initial placement, 0 picks a random one")
	cmd.Flags().UintVarP(&workers, "workers", "w", uint(runtime.NumCPU()), "files rendered at once")
	q.register(cmd, "render only the neighbourhood of this subreddit")
	return cmd
}

// expandGlobs resolves each pattern with doublestar, a pattern without meta
// characters must name an existing file.
func expandGlobs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("no files match %q", p)
			}
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func printResults(results []batch.Result) error {
	sort.Slice(results, func(i, j int) bool { return results[i].Input < results[j].Input })

	failed := 0
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		out := r.Output
		if r.Err != nil {
			failed++
			out = ui.Bad.Sprint(r.Err.Error())
		}
		rows = append(rows, []string{
			ui.StatusIcon(r.Err == nil),
			r.Input,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Links),
			strconv.Itoa(r.Ticks),
			r.Duration.Round(1e6).String(),
			out,
		})
	}
	ui.Table(os.Stdout, []string{"", "INPUT", "NODES", "LINKS", "TICKS", "TIME", "OUTPUT"}, rows)

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}
