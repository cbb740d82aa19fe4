package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viant/annbench/catalog"
	"github.com/viant/annbench/index"
)

func (a *app) newRunsCommand() *cobra.Command {
	var filter catalog.Filter
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List cataloged benchmark runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Catalog == "" {
				return fmt.Errorf("no catalog configured; pass --catalog or set catalog in the config")
			}
			ctx := cmd.Context()
			c, err := catalog.Open(ctx, a.cfg.Catalog)
			if err != nil {
				return err
			}
			defer c.Close()
			runs, err := c.List(ctx, filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := color.New(color.FgCyan, color.Bold)
			fmt.Fprintln(w, header.Sprint(strings.Join([]string{"RUN", "DATASET", "ALGORITHM", "METRIC", "PARAMS", "K", "QUERIES", "BUILD", "SEARCH", "SIZE", "CREATED"}, "\t")))
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%.3fs\t%.3fs\t%s\t%s\n",
					shortID(r.ID), r.Dataset, r.Algorithm, r.Metric, formatParams(r.Params), r.K, r.Queries,
					r.BuildSeconds, r.SearchSeconds, bytesLabel(r.IndexBytes), humanize.Time(r.CreatedAt))
			}
			return w.Flush()
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&filter.Dataset, "dataset", "", "only runs over this dataset")
	flags.StringVar(&filter.Algorithm, "algo", "", "only runs of this backend")
	flags.IntVar(&filter.Limit, "last", 20, "show at most N runs (0 for all)")
	flags.String("catalog", "", "SQLite run catalog path")
	return cmd
}

func formatParams(p map[string]string) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered index backends and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := color.New(color.FgCyan, color.Bold)
			fmt.Fprintln(w, header.Sprint("NAME\tLABEL\tEXACT\tNAMING\tDEFAULTS"))
			for _, b := range index.Backends() {
				naming := "-"
				if len(b.ParamNames) > 0 {
					naming = strings.Join(b.ParamNames, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", b.Name, b.Label, b.Exact, naming, formatParams(b.Defaults))
			}
			return w.Flush()
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
