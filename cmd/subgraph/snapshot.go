package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/psidex/subgraph/internal/batch"
	"github.com/psidex/subgraph/internal/browser"
	"github.com/psidex/subgraph/internal/output"
	"github.com/psidex/subgraph/internal/render"
	"github.com/psidex/subgraph/internal/ui"
)

func snapshotCmd() *cobra.Command {
	var (
		out     string
		measure bool
		q       queryFlags
	)

	cmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Screenshot the rendered page in headless Chrome",
		Long: `Snapshot sizes the drawing to a real browser window, lets the layout settle,
then loads the page in headless Chrome and saves a full page PNG.

  subgraph snapshot graph.json --seed golang -o golang.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Data = args[0]
			}
			if _, err := browser.FindChrome(); err != nil {
				return err
			}

			data, err := q.loadData(cfg.Data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			b := browser.New(cfg.Browser())
			logger.Debug("using browser", "user_agent", b.UserAgent())

			opts := cfg.RenderOptions(logger)
			if measure {
				vp, err := b.MeasureViewport(ctx)
				if err != nil {
					return err
				}
				logger.Debug("measured viewport", "width", vp.Width, "height", vp.Height)
				opts.Viewport = vp
			}

			r := render.New(opts)
			if err := r.Render(data); err != nil {
				return err
			}
			ticks, err := batch.Layout(ctx, r, batch.Config{
				Options:  opts,
				Layout:   cfg.Render.Layout,
				Eades:    cfg.Eades,
				MaxTicks: cfg.Render.MaxTicks,
			})
			if err != nil {
				return err
			}

			tmp, err := os.MkdirTemp("", "subgraph-snapshot-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)
			page, err := output.RenderToFile(output.HTML{Title: "subgraph"}, r, filepath.Join(tmp, "page"))
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(page)
			if err != nil {
				return err
			}

			capture, err := b.Screenshot(ctx, "file://"+filepath.ToSlash(abs), "#"+opts.ContainerID+" svg")
			if err != nil {
				return err
			}
			if out == "" {
				out = batch.OutputName("", cfg.Data) + ".png"
			}
			if err := os.WriteFile(out, capture.PNG, 0o644); err != nil {
				return err
			}

			ui.Table(os.Stdout, []string{"", "OUTPUT", "NODES", "TICKS", "BYTES", "TIME"}, [][]string{{
				ui.StatusIcon(true),
				out,
				strconv.Itoa(len(data.Nodes)),
				strconv.Itoa(ticks),
				fmt.Sprint(capture.DownloadedBytes),
				capture.Duration.Round(1e6).String(),
			}})
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "png file to write, next to the data file when empty")
	cmd.Flags().BoolVar(&measure, "measure", true, "size the drawing to the browser window rather than render.viewport")
	q.register(cmd, "snapshot only the neighbourhood of this subreddit")
	return cmd
}
