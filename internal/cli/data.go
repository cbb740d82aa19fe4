package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/viant/annbench/dataset"
	"github.com/viant/annbench/engine"
	"github.com/viant/annbench/vector"
)

func (a *app) newImportCommand() *cobra.Command {
	var db string
	var batch int
	var replace bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a dataset into the SQLite vector store",
		Example: `  annbench import --source idx --name mnist --path train-images-idx3-ubyte.gz --db vectors.sqlite
  annbench run --source sqlite --name mnist --path vectors.sqlite --algorithm hnsw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, err := dataset.Load(ctx, a.cfg.Dataset)
			if err != nil {
				return err
			}
			conn, err := engine.Open(db)
			if err != nil {
				return err
			}
			defer conn.Close()
			store, err := vector.NewSQLiteStore(conn)
			if err != nil {
				return err
			}
			if replace {
				if err := store.Remove(ctx, ds.Name); err != nil {
					return err
				}
			}
			n, err := dataset.Import(ctx, store, ds, batch)
			if err != nil {
				return err
			}
			log.Info().Str("dataset", ds.Name).Int("vectors", n).Str("db", db).Msg("dataset imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d vectors of dimension %d into %s (%s)\n", n, ds.Dim(), db, ds.Name)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&db, "db", "vectors.sqlite", "SQLite database receiving the vectors")
	flags.IntVar(&batch, "batch", 1000, "vectors per transaction")
	flags.BoolVar(&replace, "replace", false, "delete the dataset's existing vectors first")
	addDatasetFlags(flags)
	return cmd
}
