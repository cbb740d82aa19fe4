package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/viant/annbench/bench"
	"github.com/viant/annbench/catalog"
	"github.com/viant/annbench/config"
	"github.com/viant/annbench/dataset"
	"github.com/viant/annbench/index"
)

func (a *app) newRunCommand() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build an index over a dataset, query every vector and write the result record",
		Example: `  annbench run --source idx --name mnist --path train-images-idx3-ubyte.gz --algorithm hnsw --param M=32 --param efSearch=32
  annbench run --source synthetic --count 10000 --dim 64 --algorithm flat --metric cosine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job := a.cfg.Job()
			if len(params) > 0 {
				override, err := index.ParseParams(params)
				if err != nil {
					return err
				}
				if job.Params == nil {
					job.Params = index.Params{}
				}
				for k, v := range override {
					job.Params[k] = v
				}
			}
			ctx := cmd.Context()
			ds, err := dataset.Load(ctx, a.cfg.Dataset)
			if err != nil {
				return err
			}
			return a.runJobs(ctx, cmd.OutOrStdout(), ds, []bench.Job{job})
		},
	}
	flags := cmd.Flags()
	flags.StringP("algorithm", "a", "", "index backend (see annbench backends)")
	flags.StringP("metric", "m", "", "distance metric (l2, euclidean, cosine)")
	flags.IntP("k", "k", 0, "neighbors per query, self included")
	flags.StringArrayVarP(&params, "param", "p", nil, "backend parameter key=value (repeatable)")
	flags.String("extra", "", "suffix appended to the run name")
	addDatasetFlags(flags)
	addRunnerFlags(flags)
	return cmd
}

func (a *app) newSuiteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite <file>",
		Short: "Run every job of a YAML suite over one dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := config.LoadSuite(args[0])
			if err != nil {
				return err
			}
			dsCfg := suite.Dataset
			if dsCfg.Source == "" {
				dsCfg = a.cfg.Dataset
			}
			ctx := cmd.Context()
			ds, err := dataset.Load(ctx, dsCfg)
			if err != nil {
				return err
			}
			log.Info().Str("suite", suite.Name).Int("jobs", len(suite.Jobs)).Str("dataset", ds.Name).Msg("running suite")
			return a.runJobs(ctx, cmd.OutOrStdout(), ds, suite.Jobs)
		},
	}
	addRunnerFlags(cmd.Flags())
	return cmd
}

func (a *app) runJobs(ctx context.Context, out io.Writer, ds *dataset.Dataset, jobs []bench.Job) error {
	opts := a.cfg.Options()
	if a.cfg.Catalog != "" {
		c, err := catalog.Open(ctx, a.cfg.Catalog)
		if err != nil {
			return err
		}
		defer c.Close()
		opts.Catalog = c
	}
	outcomes, err := bench.NewRunner(opts).RunAll(ctx, ds, jobs)
	for _, o := range outcomes {
		printOutcome(out, o)
	}
	return err
}

func printOutcome(out io.Writer, o *bench.Outcome) {
	name := color.New(color.FgGreen, color.Bold).Sprint(o.Name)
	fmt.Fprintf(out, "%s\n  queries=%d build=%.3fs search=%.3fs avg=%.6fs size=%s\n  result=%s\n",
		name, o.Record.Queries(), o.Record.BuildTimeSeconds, o.Record.TotalSearchTimeSeconds,
		o.Record.AverageSearchTimeSeconds, bytesLabel(o.Record.IndexFileSizeBytes), o.ResultPath)
	if o.IndexPath != "" {
		fmt.Fprintf(out, "  index=%s\n", o.IndexPath)
	}
	if o.RunID != "" {
		fmt.Fprintf(out, "  run_id=%s\n", o.RunID)
	}
}
