package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/solver"
	"github.com/matzehuels/boxtower/pkg/store"
)

// Runner encapsulates solving with caching and run history.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - it doesn't keep
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional
	Logger *log.Logger

	// TTL overrides cache.TTLSolve and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solve validates the input, solves it (or reuses a cached tower) and, when
// opts.Record is set and the runner has a store, saves the run.
//
// If ctx is cancelled during a tabu search, Solve returns a partial result
// holding the best tower so far together with the context error.
func (r *Runner) Solve(ctx context.Context, boxes []box.Box, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateBoxes(boxes); err != nil {
		return nil, err
	}

	start := time.Now()
	tower, hit, err := r.SolveWithCacheInfo(ctx, boxes, opts)
	elapsed := time.Since(start)

	if err != nil && len(tower) == 0 {
		return nil, err
	}

	result := &Result{
		Boxes:     tower,
		Height:    box.TotalHeight(tower),
		Algorithm: solver.Algorithm(opts.Algorithm),
		CacheHit:  hit,
		Partial:   err != nil,
		Stats: Stats{
			BoxCount:  len(boxes),
			TowerSize: len(tower),
			SolveTime: elapsed,
		},
	}
	if err != nil {
		return result, err
	}

	opts.Logger.Info("solved",
		"algorithm", opts.Algorithm,
		"boxes", len(boxes),
		"height", result.Height,
		"cached", hit,
		"duration", elapsed)

	if opts.Record && r.Store != nil {
		run := store.NewRun(opts.Algorithm, opts.Params(), boxes, tower, elapsed)
		run.Cached = hit
		if err := r.Store.Save(ctx, run); err != nil {
			return result, fmt.Errorf("save run: %w", err)
		}
		result.Run = run
		opts.Logger.Debug("saved run", "id", run.ID)
	}
	return result, nil
}

// SolveWithCacheInfo solves boxes with caching and returns cache hit info.
// Options must already be validated.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, boxes []box.Box, opts Options) ([]box.Box, bool, error) {
	r.applyLogger(&opts)
	cacheKey := r.Keyer.SolveKey(cache.HashBoxes(boxes), opts.SolveKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var tower []box.Box
			if err := json.Unmarshal(data, &tower); err == nil && len(tower) > 0 && box.IsChain(tower) {
				observability.Cache().OnCacheHit(ctx, "solve")
				return tower, true, nil
			}
			opts.Logger.Debug("discarding unusable cache entry", "key", cacheKey)
		} else if err != nil {
			opts.Logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
	}

	tower, err := r.solve(ctx, boxes, opts)
	if err != nil {
		return tower, false, err
	}

	if data, err := json.Marshal(tower); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLSolve)); err != nil {
			opts.Logger.Warn("cache store failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "solve", len(data))
		}
	}
	return tower, false, nil
}

func (r *Runner) solve(ctx context.Context, boxes []box.Box, opts Options) ([]box.Box, error) {
	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, opts.Algorithm, len(boxes))
	start := time.Now()

	var (
		tower []box.Box
		err   error
	)
	switch s := opts.Solver().(type) {
	case solver.ContextSolver:
		tower, err = s.SolveContext(ctx, boxes)
	default:
		tower, err = s.Solve(boxes)
	}

	hooks.OnSolveComplete(ctx, opts.Algorithm, box.TotalHeight(tower), time.Since(start), err)
	return tower, err
}

// RenderWithCacheInfo renders a tower to SVG with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tower []box.Box, opts render.Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.ArtifactKey(cache.HashBoxes(tower), cache.ArtifactKeyOpts{
		Format:   "svg",
		Labels:   opts.Labels,
		MaxWidth: opts.MaxWidth,
	})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, "svg")
	start := time.Now()
	svg, err := render.Tower(ctx, tower, opts)
	hooks.OnRenderComplete(ctx, "svg", time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, svg, r.ttl(cache.TTLArtifact)); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
	}
	return svg, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, tower []box.Box, opts render.Options) ([]byte, error) {
	svg, _, err := r.RenderWithCacheInfo(ctx, tower, opts)
	return svg, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
