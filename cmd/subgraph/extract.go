package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/psidex/subgraph/internal/graph"
	"github.com/psidex/subgraph/internal/ui"
)

func extractCmd() *cobra.Command {
	var (
		asJSON bool
		q      queryFlags
	)

	cmd := &cobra.Command{
		Use:   "extract <file> <seed>",
		Short: "Print the neighbourhood of a subreddit",
		Long: `Extract walks the links around seed and prints the subreddits and links it
kept, as a table or, with --json, as graph data the other commands read.

  subgraph extract graph.json golang --depth 2
  subgraph extract graph.json golang --json > golang.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(); err != nil {
				return err
			}
			q.seed = args[1]
			d, err := q.loadData(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			printExtract(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print graph data rather than a table")
	q.register(cmd, "")
	_ = cmd.Flags().MarkHidden("seed")
	return cmd
}

func printExtract(w io.Writer, d graph.Data) {
	out := make([]int, len(d.Nodes))
	for _, l := range d.Links {
		out[l.Source]++
	}
	in := graph.Degrees(len(d.Nodes), d.Links)

	rows := make([][]string, 0, len(d.Nodes))
	for i, n := range d.Nodes {
		name := n.Name
		if n.Adult {
			name += ui.Warn.Sprint(" (nsfw)")
		}
		rows = append(rows, []string{
			name,
			strconv.FormatFloat(n.Subs, 'f', -1, 64),
			strconv.Itoa(out[i]),
			strconv.Itoa(in[i] - out[i]),
		})
	}
	ui.Table(w, []string{"SUBREDDIT", "SUBS", "OUT", "IN"}, rows)
	fmt.Fprintf(w, "\n%d subreddits, %d links\n", len(d.Nodes), len(d.Links))
}
