// Package pipeline runs a solve the same way for the CLI and the API server.
//
// A solve goes validate → cache lookup → solve → cache store → run record:
//
//  1. Validate: check the boxes and resolve option defaults
//  2. Cache: reuse a tower solved earlier from the same boxes and options
//  3. Solve: run the selected algorithm
//  4. Record: optionally save the run to a [store.Store]
//
// Rendering a solved tower to SVG goes through the same cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Solve(ctx, boxes, pipeline.Options{Algorithm: "tabu"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Height)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/solver"
	"github.com/matzehuels/boxtower/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultAlgorithm is used when Options.Algorithm is empty.
const DefaultAlgorithm = solver.AlgorithmTabu

// MaxBoxes bounds a single solve request. The exact solver is quadratic.
const MaxBoxes = 100_000

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	Algorithm string `json:"algorithm,omitempty"`

	// Tabu options, ignored by the other algorithms.
	MaxIterations int    `json:"max_iterations,omitempty"`
	Capacities    []int  `json:"capacities,omitempty"`
	Seed          uint64 `json:"seed,omitempty"` // 0 selects solver.DefaultSeed
	Selection     string `json:"selection,omitempty"`
	Policy        string `json:"policy,omitempty"`
	Initial       string `json:"initial,omitempty"`

	// Refresh skips the cache lookup; the new result is still cached.
	Refresh bool `json:"refresh,omitempty"`

	// Record saves the run when the runner has a store.
	Record bool `json:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger           `json:"-"`
	Progress func(solver.Progress) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a solve.
type Result struct {
	// Boxes is the tower, bottom to top.
	Boxes []box.Box

	// Height is the tower height.
	Height int

	// Algorithm is the canonical algorithm name.
	Algorithm solver.Algorithm

	// CacheHit reports whether the tower came from the cache.
	CacheHit bool

	// Partial is set when the solve was cancelled and Boxes holds the best
	// tower found so far.
	Partial bool

	// Run is the saved run record, if any.
	Run *store.Run

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains solve statistics.
type Stats struct {
	BoxCount  int
	TowerSize int
	SolveTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults canonicalizes the algorithm name, applies defaults
// and validates the tabu options. For the exact and greedy algorithms the tabu
// fields are cleared so equivalent requests share cache entries.
//
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Algorithm == "" {
		o.Algorithm = string(DefaultAlgorithm)
	}
	algo, err := solver.ParseAlgorithm(o.Algorithm)
	if err != nil {
		return err
	}
	o.Algorithm = string(algo)

	if algo == solver.AlgorithmTabu {
		if err := o.setTabuDefaults(); err != nil {
			return err
		}
	} else {
		o.MaxIterations, o.Capacities, o.Seed = 0, nil, 0
		o.Selection, o.Policy, o.Initial = "", "", ""
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) setTabuDefaults() error {
	if o.MaxIterations == 0 {
		o.MaxIterations = solver.DefaultMaxIterations
	}
	if len(o.Capacities) == 0 {
		o.Capacities = solver.DefaultCapacities()
	}
	if o.Seed == 0 {
		o.Seed = solver.DefaultSeed
	}
	if o.Selection == "" {
		o.Selection = string(solver.SelectRoundRobin)
	}
	if o.Policy == "" {
		o.Policy = string(solver.PolicyDiversify)
	}
	if o.Initial == "" {
		o.Initial = string(solver.AlgorithmGreedy)
	}
	initial, err := solver.ParseAlgorithm(o.Initial)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "initial tower")
	}
	o.Initial = string(initial)
	return o.tabuSearch().Validate()
}

func (o *Options) tabuSearch() solver.TabuSearch {
	return solver.TabuSearch{
		MaxIterations: o.MaxIterations,
		Capacities:    o.Capacities,
		Seed:          o.Seed,
		Selection:     solver.Selection(o.Selection),
		Policy:        solver.Policy(o.Policy),
		Initial:       solver.Algorithm(o.Initial),
		Progress:      o.Progress,
	}
}

// Solver returns the configured solver. Call ValidateAndSetDefaults first.
func (o *Options) Solver() solver.Solver {
	switch solver.Algorithm(o.Algorithm) {
	case solver.AlgorithmGreedy:
		return solver.Greedy{}
	case solver.AlgorithmDP:
		return solver.DynamicProgramming{}
	default:
		return o.tabuSearch()
	}
}

// SolveKeyOpts returns cache key options for the solve.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		Algorithm:     o.Algorithm,
		MaxIterations: o.MaxIterations,
		Capacities:    o.Capacities,
		Seed:          o.Seed,
		Selection:     o.Selection,
		Policy:        o.Policy,
		Initial:       o.Initial,
	}
}

// Params returns the options as recorded in a run.
func (o *Options) Params() store.Params {
	return store.Params{
		MaxIterations: o.MaxIterations,
		Capacities:    o.Capacities,
		Seed:          o.Seed,
		Selection:     o.Selection,
		Policy:        o.Policy,
		Initial:       o.Initial,
	}
}

// ValidateBoxes checks a solve input: non-empty, bounded and every box valid.
func ValidateBoxes(boxes []box.Box) error {
	if len(boxes) > MaxBoxes {
		return errors.New(errors.ErrCodeInvalidInput, "too many boxes: %d (max %d)", len(boxes), MaxBoxes)
	}
	return box.ValidateAll(boxes)
}
