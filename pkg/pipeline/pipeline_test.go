package pipeline

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/solver"
	"github.com/matzehuels/boxtower/pkg/store"
)

// mapCache is an in-memory cache that counts operations.
type mapCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	gets, sets int
	lastTTL    time.Duration
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func scenario() []box.Box {
	return []box.Box{
		box.New(10, 5, 8),
		box.New(5, 8, 10),
		box.New(8, 5, 10),
		box.New(7, 1, 15),
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Algorithm != "tabu" {
		t.Errorf("Algorithm = %q, want tabu", opts.Algorithm)
	}
	if opts.MaxIterations != solver.DefaultMaxIterations || opts.Seed != solver.DefaultSeed {
		t.Errorf("tabu defaults not applied: %+v", opts)
	}
	if !slices.Equal(opts.Capacities, solver.DefaultCapacities()) {
		t.Errorf("Capacities = %v", opts.Capacities)
	}
	if opts.Selection != "round-robin" || opts.Policy != "diversify" || opts.Initial != "greedy" {
		t.Errorf("unexpected tabu strategy defaults: %+v", opts)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateAndSetDefaultsClearsTabuFields(t *testing.T) {
	opts := Options{Algorithm: "progdyn", MaxIterations: 5, Seed: 9, Policy: "stop"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != "dp" {
		t.Errorf("Algorithm = %q, want dp", opts.Algorithm)
	}
	if opts.MaxIterations != 0 || opts.Seed != 0 || opts.Policy != "" {
		t.Errorf("tabu fields should be cleared for dp: %+v", opts)
	}
	if _, ok := opts.Solver().(solver.DynamicProgramming); !ok {
		t.Errorf("Solver() = %T, want DynamicProgramming", opts.Solver())
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"unknown algorithm", Options{Algorithm: "annealing"}, errors.ErrCodeInvalidAlgorithm},
		{"negative iterations", Options{MaxIterations: -3}, errors.ErrCodeInvalidOption},
		{"zero capacity", Options{Capacities: []int{4, 0}}, errors.ErrCodeInvalidOption},
		{"bad selection", Options{Selection: "any"}, errors.ErrCodeInvalidOption},
		{"unknown initial", Options{Initial: "magic"}, errors.ErrCodeInvalidOption},
		{"tabu initial", Options{Initial: "tabou"}, errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q (%v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestSolveUsesCache(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil)

	first, err := r.Solve(ctx, scenario(), Options{Algorithm: "dp"})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if first.CacheHit || first.Height != 15 || first.Algorithm != solver.AlgorithmDP {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := r.Solve(ctx, scenario(), Options{Algorithm: "progdyn"})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !second.CacheHit {
		t.Error("second solve with an alias should hit the cache")
	}
	if !slices.Equal(first.Boxes, second.Boxes) {
		t.Errorf("cached tower differs: %v vs %v", first.Boxes, second.Boxes)
	}

	third, err := r.Solve(ctx, scenario(), Options{Algorithm: "dp", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2", c.sets)
	}

	// Different options must not share an entry.
	tabu, err := r.Solve(ctx, scenario(), Options{Algorithm: "tabu"})
	if err != nil {
		t.Fatal(err)
	}
	if tabu.CacheHit {
		t.Error("tabu must not reuse the dp entry")
	}
}

func TestSolveIgnoresCorruptCacheEntries(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Algorithm: "greedy"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.SolveKey(cache.HashBoxes(scenario()), opts.SolveKeyOpts())

	// A broken tower must never be served.
	_ = c.Set(ctx, key, []byte(`[{"height":1,"width":1,"depth":1},{"height":1,"width":2,"depth":2}]`), 0)

	res, err := r.Solve(ctx, scenario(), Options{Algorithm: "greedy"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || res.Height != 15 {
		t.Errorf("corrupt entry served: %+v", res)
	}
}

func TestSolveRecordsRuns(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	r.Store = store.NewMemoryStore()

	res, err := r.Solve(ctx, scenario(), Options{Algorithm: "tabu", Record: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Run == nil {
		t.Fatal("run should be recorded")
	}

	run, err := r.Store.Get(ctx, res.Run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Height != res.Height || run.Algorithm != "tabu" || run.Params.MaxIterations != solver.DefaultMaxIterations {
		t.Errorf("unexpected run: %+v", run)
	}
	if len(run.Input) != 4 {
		t.Errorf("run input has %d boxes, want 4", len(run.Input))
	}

	notRecorded, err := r.Solve(ctx, scenario(), Options{Algorithm: "dp"})
	if err != nil {
		t.Fatal(err)
	}
	if notRecorded.Run != nil {
		t.Error("runs are only saved when Record is set")
	}
}

func TestSolveRejectsInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	if _, err := r.Solve(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("empty input: %v", err)
	}
	bad := []box.Box{box.New(1, 1, 1), box.New(0, 1, 1)}
	if _, err := r.Solve(context.Background(), bad, Options{}); !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("invalid box: %v", err)
	}
}

func TestSolveCancelledReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	res, err := r.Solve(ctx, scenario(), Options{Algorithm: "tabu"})
	if err == nil {
		t.Fatal("expected context error")
	}
	if res == nil || !res.Partial || res.Height != 15 {
		t.Errorf("expected partial result with the seed tower, got %+v", res)
	}
}

func TestSolveCancelledExact(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mc := newMapCache()
	r := NewRunner(mc, nil, nil)
	res, err := r.Solve(ctx, scenario(), Options{Algorithm: "dp"})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if mc.sets != 0 {
		t.Errorf("cancelled solve was cached")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	solves, hits, misses int
}

func (h *countingHooks) OnSolveStart(context.Context, string, int) { h.solves++ }
func (h *countingHooks) OnCacheHit(context.Context, string)        { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)       { h.misses++ }

func TestSolveEmitsHooks(t *testing.T) {
	defer observability.Reset()
	h := &countingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)

	r := NewRunner(newMapCache(), nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := r.Solve(context.Background(), scenario(), Options{Algorithm: "greedy"}); err != nil {
			t.Fatal(err)
		}
	}
	if h.solves != 1 || h.misses != 1 || h.hits != 1 {
		t.Errorf("solves=%d misses=%d hits=%d, want 1 each", h.solves, h.misses, h.hits)
	}
}

func TestRunnerTTL(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Solve(context.Background(), scenario(), Options{Algorithm: "dp"}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if c.lastTTL != cache.TTLSolve {
		t.Errorf("default ttl = %v, want %v", c.lastTTL, cache.TTLSolve)
	}

	r.TTL = time.Hour
	if _, err := r.Solve(context.Background(), scenario(), Options{Algorithm: "greedy"}); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if c.lastTTL != time.Hour {
		t.Errorf("override ttl = %v, want 1h", c.lastTTL)
	}
}
