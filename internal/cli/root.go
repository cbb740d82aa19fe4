// Package cli implements the annbench command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/viant/annbench/config"
	_ "github.com/viant/annbench/index/all"
	"github.com/viant/annbench/internal/logging"
)

// flagKeys maps command-line flags to configuration keys. Flags are bound
// for the executing command only, so commands sharing a flag name do not
// shadow each other.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"pretty":    "log.pretty",
	"source":    "dataset.source",
	"name":      "dataset.name",
	"path":      "dataset.path",
	"table":     "dataset.table",
	"column":    "dataset.column",
	"dsn":       "dataset.dsn",
	"limit":     "dataset.limit",
	"count":     "dataset.count",
	"dim":       "dataset.dim",
	"seed":      "dataset.seed",
	"algorithm": "algorithm",
	"metric":    "metric",
	"k":         "k",
	"extra":     "extra",
	"results":   "results_dir",
	"saves":     "saves_dir",
	"workers":   "workers",
	"catalog":   "catalog",
}

type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	cfg     *config.Config
}

// NewRootCommand builds the annbench command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "annbench",
		Short:         "annbench - all-kNN benchmark driver for nearest-neighbor indexes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./annbench.{yaml,toml,json})")
	flags.StringVar(&a.envFile, "env", ".env", "dotenv file with ANNBENCH_* variables")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("pretty", true, "human-readable console logs")

	root.AddCommand(
		a.newRunCommand(),
		a.newSuiteCommand(),
		a.newImportCommand(),
		newValidateCommand(),
		newRecallCommand(),
		a.newRunsCommand(),
		newBackendsCommand(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	config.Prepare(a.v, a.cfgFile)
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}
	cfg, err := config.Read(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if err := logging.Init(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("config loaded")
	}
	return nil
}

func addDatasetFlags(flags *pflag.FlagSet) {
	flags.String("source", "", "dataset source (idx, fvecs, bvecs, sqlite, postgres, synthetic)")
	flags.String("name", "", "dataset name used in result paths")
	flags.String("path", "", "dataset file, or SQLite database for the sqlite source")
	flags.String("table", "", "postgres table")
	flags.String("column", "", "postgres vector column")
	flags.String("dsn", "", "postgres connection string")
	flags.Int("limit", 0, "use only the first N vectors")
	flags.Int("count", 0, "synthetic vector count")
	flags.Int("dim", 0, "synthetic vector dimension")
	flags.Int64("seed", 0, "synthetic generator seed")
}

func addRunnerFlags(flags *pflag.FlagSet) {
	flags.String("results", "", "results directory")
	flags.String("saves", "", "persisted index directory")
	flags.Int("workers", 0, "concurrent search workers")
	flags.String("catalog", "", "SQLite run catalog path")
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "annbench:", err)
		stop()
		os.Exit(1)
	}
}
