package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/viant/annbench/catalog"
	"github.com/viant/annbench/dataset"
	"github.com/viant/annbench/index"
	"github.com/viant/annbench/record"
)

// Runner executes benchmark jobs.
type Runner struct {
	options Options
}

// NewRunner creates a runner.
func NewRunner(options Options) *Runner {
	return &Runner{options: options.withDefaults()}
}

// Options returns the effective options.
func (r *Runner) Options() Options { return r.options }

// Run benchmarks job on ds.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset, job Job) (*Outcome, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	job = job.withDefaults()
	backend, err := index.Lookup(job.Algorithm)
	if err != nil {
		return nil, err
	}
	metric, err := index.ParseMetric(job.Metric)
	if err != nil {
		return nil, err
	}
	params := backend.Resolve(job.Params)
	idx, err := backend.New(metric, ds.Dim(), params)
	if err != nil {
		return nil, fmt.Errorf("bench: create %s: %w", backend.Name, err)
	}
	extra := job.Extra
	if extra == "" {
		extra = fmt.Sprintf("_P%d", r.options.Workers)
	}
	name := Name(backend, metric, params, extra)
	logger := log.With().Str("dataset", ds.Name).Str("run", name).Logger()
	logger.Info().Int("vectors", ds.Len()).Int("dim", ds.Dim()).Msg("building index")

	start := time.Now()
	if err := idx.Build(ds.IDs, ds.Vectors); err != nil {
		return nil, fmt.Errorf("bench: build %s: %w", name, err)
	}
	buildTime := time.Since(start).Seconds()
	if backend.Exact {
		buildTime = 0
	}
	logger.Info().Float64("seconds", buildTime).Msg("index built")

	logger.Info().Int("k", job.K).Int("workers", r.options.Workers).Msg("searching")
	start = time.Now()
	ids, dists, err := SearchAll(ctx, idx, ds.Vectors, job.K, r.options.Workers)
	if err != nil {
		return nil, fmt.Errorf("bench: search %s: %w", name, err)
	}
	searchTime := time.Since(start).Seconds()
	logger.Info().Float64("seconds", searchTime).Msg("search finished")

	outcome := &Outcome{Name: name}
	var size int64
	if saver, ok := idx.(index.Saver); ok && !backend.Exact {
		outcome.IndexPath = filepath.Join(r.options.SavesDir, ds.Name, name+".index")
		if size, err = persist(saver, outcome.IndexPath); err != nil {
			return nil, err
		}
		logger.Info().Str("path", outcome.IndexPath).Str("size", humanize.Bytes(uint64(size))).Msg("index saved")
	}

	rec, err := record.Build(dists, ids, record.Meta{
		TotalSearchTimeSeconds: searchTime,
		BuildTimeSeconds:       buildTime,
		IndexFileSizeBytes:     size,
	}, record.WithSelfIDs(ds.IDs))
	if err != nil {
		return nil, fmt.Errorf("bench: record %s: %w", name, err)
	}
	outcome.Record = rec
	outcome.ResultPath = filepath.Join(r.options.ResultsDir, ds.Name, name+".json")
	if err := record.WriteFile(outcome.ResultPath, rec); err != nil {
		return nil, fmt.Errorf("bench: write %s: %w", outcome.ResultPath, err)
	}
	logger.Info().Str("path", outcome.ResultPath).Float64("searchtime", rec.AverageSearchTimeSeconds).Msg("result written")

	if r.options.Catalog != nil {
		run := &catalog.Run{
			Dataset:        ds.Name,
			Algorithm:      backend.Name,
			Metric:         string(metric),
			Params:         params,
			K:              job.K,
			Queries:        rec.Queries(),
			BuildSeconds:   rec.BuildTimeSeconds,
			SearchSeconds:  rec.TotalSearchTimeSeconds,
			AverageSeconds: rec.AverageSearchTimeSeconds,
			IndexBytes:     size,
			ResultPath:     outcome.ResultPath,
			IndexPath:      outcome.IndexPath,
		}
		if outcome.RunID, err = r.options.Catalog.Insert(ctx, run); err != nil {
			return nil, err
		}
		logger.Debug().Str("run_id", outcome.RunID).Msg("run cataloged")
	}
	return outcome, nil
}

// RunAll runs jobs in order and stops at the first failure, returning the
// outcomes of the jobs that finished.
func (r *Runner) RunAll(ctx context.Context, ds *dataset.Dataset, jobs []Job) ([]*Outcome, error) {
	outcomes := make([]*Outcome, 0, len(jobs))
	for i, job := range jobs {
		outcome, err := r.Run(ctx, ds, job)
		if err != nil {
			return outcomes, fmt.Errorf("bench: job %d (%s): %w", i, job.Algorithm, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func persist(saver index.Saver, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("bench: create %s: %w", filepath.Dir(path), err)
	}
	if err := saver.Save(path); err != nil {
		return 0, fmt.Errorf("bench: save %s: %w", path, err)
	}
	return ArtifactSize(path)
}

// SearchAll queries idx with every vector, k neighbors each, spreading the
// queries over workers goroutines. Results are in query order.
func SearchAll(ctx context.Context, idx index.Index, queries [][]float32, k, workers int) ([][]int64, [][]float32, error) {
	if workers <= 0 {
		workers = 1
	}
	ids := make([][]int64, len(queries))
	dists := make([][]float32, len(queries))
	chunk := (len(queries) + workers*4 - 1) / (workers * 4)
	if chunk == 0 {
		chunk = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(queries); start += chunk {
		if gctx.Err() != nil {
			break
		}
		end := start + chunk
		if end > len(queries) {
			end = len(queries)
		}
		start, end := start, end
		g.Go(func() error {
			for q := start; q < end; q++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				found, d, err := idx.Search(queries[q], k)
				if err != nil {
					return fmt.Errorf("query %d: %w", q, err)
				}
				ids[q], dists[q] = found, d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return ids, dists, nil
}
