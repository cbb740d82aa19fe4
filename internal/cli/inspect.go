package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viant/annbench/evaluate"
	"github.com/viant/annbench/record"
)

func bytesLabel(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <result.json>...",
		Short: "Check result records against the record JSON schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen).Sprint("ok")
			bad := color.New(color.FgRed, color.Bold).Sprint("invalid")
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err == nil {
					err = record.Validate(data)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", bad, path, err)
					continue
				}
				fmt.Fprintf(out, "%s %s\n", ok, path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d records invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newRecallCommand() *cobra.Command {
	var truthPath, candidatePath string
	var k int
	var perQuery bool
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Compute recall@k of a result record against an exact one",
		Example: `  annbench recall --truth results/mnist/results.index.FlatL2_P8.json \
    --candidate results/mnist/results.index.hnswL2_allknn_.M=32.efSearch=32.ml=0.25.seed=0_P8.json -k 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if truthPath == "" || candidatePath == "" {
				return errors.New("both --truth and --candidate are required")
			}
			truth, err := record.ReadFile(truthPath)
			if err != nil {
				return err
			}
			candidate, err := record.ReadFile(candidatePath)
			if err != nil {
				return err
			}
			report, err := evaluate.Recall(truth, candidate, k)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header := color.New(color.FgCyan, color.Bold)
			fmt.Fprintf(out, "%s %.4f\n", header.Sprintf("recall@%d", k), report.Mean)
			fmt.Fprintf(out, "queries=%d min=%.4f\n", report.Queries, report.Min)
			if perQuery {
				for q, r := range report.PerQuery {
					fmt.Fprintf(out, "%d\t%.4f\n", q, r)
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&truthPath, "truth", "", "exact result record")
	flags.StringVar(&candidatePath, "candidate", "", "approximate result record")
	flags.IntVarP(&k, "k", "k", 10, "neighbors compared per query")
	flags.BoolVar(&perQuery, "per-query", false, "print recall of every query")
	return cmd
}
