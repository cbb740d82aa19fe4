// Package config loads annbench settings from a config file, the
// environment (ANNBENCH_* variables and a .env file) and command-line flags,
// and parses benchmark suites.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/viant/annbench/bench"
	"github.com/viant/annbench/dataset"
	"github.com/viant/annbench/index"
)

// EnvPrefix prefixes environment overrides, e.g. ANNBENCH_DATASET_PATH.
const EnvPrefix = "ANNBENCH"

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the merged configuration of a run.
type Config struct {
	Dataset    dataset.Config    `mapstructure:"dataset"`
	Algorithm  string            `mapstructure:"algorithm"`
	Metric     string            `mapstructure:"metric"`
	K          int               `mapstructure:"k"`
	Params     map[string]string `mapstructure:"params"`
	Extra      string            `mapstructure:"extra"`
	ResultsDir string            `mapstructure:"results_dir"`
	SavesDir   string            `mapstructure:"saves_dir"`
	Workers    int               `mapstructure:"workers"`
	// Catalog is the SQLite catalog path; empty disables the catalog.
	Catalog string `mapstructure:"catalog"`
	Log     Log    `mapstructure:"log"`
}

// SetDefaults registers every key with its default so environment
// variables can override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataset.source", dataset.SourceIDX)
	v.SetDefault("dataset.name", "")
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.table", "")
	v.SetDefault("dataset.column", dataset.DefaultColumn)
	v.SetDefault("dataset.dsn", "")
	v.SetDefault("dataset.limit", 0)
	v.SetDefault("dataset.count", 0)
	v.SetDefault("dataset.dim", 0)
	v.SetDefault("dataset.seed", 1)
	v.SetDefault("algorithm", "flat")
	v.SetDefault("metric", string(index.L2))
	v.SetDefault("k", bench.DefaultK)
	v.SetDefault("params", map[string]string{})
	v.SetDefault("extra", "")
	v.SetDefault("results_dir", "results")
	v.SetDefault("saves_dir", "saves")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("catalog", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Prepare configures v for defaults, environment and the config file. An
// empty path looks for annbench.{yaml,toml,json} in the working directory.
func Prepare(v *viper.Viper, path string) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("annbench")
		v.AddConfigPath(".")
	}
}

// Read reads the config file, tolerating its absence when no explicit path
// was given, and unmarshals the merged configuration.
func Read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to load config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Load is Prepare followed by Read on a fresh viper instance.
func Load(path string) (*Config, error) {
	v := viper.New()
	Prepare(v, path)
	return Read(v)
}

// Job returns the benchmark job described by the configuration.
func (c *Config) Job() bench.Job {
	return bench.Job{
		Algorithm: c.Algorithm,
		Metric:    c.Metric,
		K:         c.K,
		Params:    index.Params(c.Params).Clone(),
		Extra:     c.Extra,
	}
}

// Options returns runner options without a catalog.
func (c *Config) Options() bench.Options {
	return bench.Options{
		ResultsDir: c.ResultsDir,
		SavesDir:   c.SavesDir,
		Workers:    c.Workers,
	}
}
