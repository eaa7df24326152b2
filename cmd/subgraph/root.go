package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/psidex/subgraph/internal/config"
	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/ui"
)

var version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "subgraph",
		Short: "subgraph draws force directed graphs of linked subreddits",
		Long: ui.Brand.Sprint("subgraph") + " lays out subreddit graphs and draws them as SVG, PNG,\n" +
			"echarts pages or a live page that streams the layout as it settles.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides log_level from the config")

	root.AddCommand(
		renderCmd(),
		serveCmd(),
		snapshotCmd(),
		extractCmd(),
	)
	return root
}

// loadConfig reads and validates the config, the --log-level flag wins over it.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// queryFlags are the neighbourhood flags shared by the commands that extract.
type queryFlags struct {
	seed    string
	depth   int
	nsfw    bool
	minSubs float64
}

func (q *queryFlags) register(cmd *cobra.Command, seedUsage string) {
	cmd.Flags().StringVar(&q.seed, "seed", "", seedUsage)
	cmd.Flags().IntVar(&q.depth, "depth", graph.MaxDepth, "hops to follow from the seed, at most 3")
	cmd.Flags().BoolVar(&q.nsfw, "nsfw", false, "keep adult subreddits")
	cmd.Flags().Float64Var(&q.minSubs, "min-subs", 0, "drop subreddits smaller than this")
}

func (q *queryFlags) query() graph.Query {
	return graph.Query{
		Seed:    q.seed,
		Depth:   graph.ClampDepth(q.depth),
		NSFW:    q.nsfw,
		MinSubs: q.minSubs,
	}
}

// loadData loads path and narrows it to the flags' neighbourhood when a seed is set.
func (q *queryFlags) loadData(path string) (graph.Data, error) {
	d, err := graph.Load(path)
	if err != nil {
		return graph.Data{}, err
	}
	if q.seed == "" {
		return d, nil
	}
	return graph.Extract(d, q.query())
}
