package solver

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/stack"
)

const (
	// DefaultMaxIterations is the default stall budget of TabuSearch.
	DefaultMaxIterations = 100

	// DefaultSeed seeds random tabu queue selection.
	DefaultSeed = uint64(42)
)

// Selection decides which tabu queue receives the boxes evicted by a move.
type Selection string

const (
	SelectRoundRobin Selection = "round-robin"
	SelectRandom     Selection = "random"
)

// Policy decides what happens when every unplaced box is tabu.
type Policy string

const (
	// PolicyDiversify releases the oldest entry of every tabu queue and keeps
	// searching. Moves are applied even when they shorten the tower.
	PolicyDiversify Policy = "diversify"

	// PolicyStopOnExhaustion ends the search as soon as no candidate box is
	// left.
	PolicyStopOnExhaustion Policy = "stop"
)

// Progress is reported after every iteration of TabuSearch.
type Progress struct {
	Iteration int  // 1-based iteration number
	Stall     int  // iterations left without improvement
	Current   int  // height of the working tower
	Best      int  // height of the best tower so far
	Improved  bool // whether this iteration raised Best
	Moved     bool // whether a box was inserted this iteration
	Tabu      int  // distinct boxes currently forbidden
}

// TabuSearch improves a seed tower by tabu search. The zero value is usable
// and runs with the package defaults.
type TabuSearch struct {
	// MaxIterations is the number of consecutive non-improving iterations
	// after which the search stops. Defaults to DefaultMaxIterations.
	MaxIterations int

	// Capacities sizes the tabu queues, one queue per entry.
	// Defaults to DefaultCapacities().
	Capacities []int

	// Initial is the algorithm producing the seed tower: AlgorithmGreedy
	// (default) or AlgorithmDP.
	Initial Algorithm

	// Selection picks the queue for each evicted set. Defaults to
	// SelectRoundRobin.
	Selection Selection

	// Seed drives SelectRandom. Zero selects DefaultSeed, so a zero seed
	// cannot be requested.
	Seed uint64

	// Policy handles an exhausted neighbourhood. Defaults to PolicyDiversify.
	Policy Policy

	// Progress, if set, is called after every iteration.
	Progress func(Progress)
}

// Solve implements Solver.
func (t TabuSearch) Solve(boxes []box.Box) ([]box.Box, error) {
	return t.SolveContext(context.Background(), boxes)
}

// SolveContext implements ContextSolver.
func (t TabuSearch) SolveContext(ctx context.Context, boxes []box.Box) ([]box.Box, error) {
	if err := box.ValidateAll(boxes); err != nil {
		return nil, err
	}
	t, err := t.withDefaults()
	if err != nil {
		return nil, err
	}

	var seed []int
	if t.Initial == AlgorithmDP {
		if seed, err = (DynamicProgramming{}).chainContext(ctx, boxes); err != nil {
			return nil, err
		}
	} else {
		seed = Greedy{}.chain(boxes)
	}
	candidate, err := stack.New(boxes, seed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "seed tower")
	}

	best, err := t.search(ctx, candidate)
	return best.Blocks(), err
}

func (t TabuSearch) withDefaults() (TabuSearch, error) {
	if t.MaxIterations == 0 {
		t.MaxIterations = DefaultMaxIterations
	}
	if t.Capacities == nil {
		t.Capacities = DefaultCapacities()
	}
	if t.Initial == "" {
		t.Initial = AlgorithmGreedy
	}
	if t.Selection == "" {
		t.Selection = SelectRoundRobin
	}
	if t.Seed == 0 {
		t.Seed = DefaultSeed
	}
	if t.Policy == "" {
		t.Policy = PolicyDiversify
	}
	return t, t.Validate()
}

// Validate checks the options after defaults have been applied.
func (t TabuSearch) Validate() error {
	if err := errors.ValidatePositive("max_iterations", t.MaxIterations); err != nil {
		return err
	}
	if err := errors.ValidateCapacities(t.Capacities); err != nil {
		return err
	}
	switch t.Initial {
	case AlgorithmGreedy, AlgorithmDP:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "initial tower must come from greedy or dp, got %q", t.Initial)
	}
	switch t.Selection {
	case SelectRoundRobin, SelectRandom:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown queue selection %q", t.Selection)
	}
	switch t.Policy {
	case PolicyDiversify, PolicyStopOnExhaustion:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown exhaustion policy %q", t.Policy)
	}
	return nil
}

func (t TabuSearch) search(ctx context.Context, candidate *stack.Stack) (*stack.Stack, error) {
	best := candidate.Clone()
	memory := NewMemory(t.Capacities...)
	nextQueue := t.queuePicker(memory.Len())
	n := candidate.NumBoxes()
	neighbours := make([]int, 0, n)

	stall := t.MaxIterations
	for iter := 1; stall > 0; iter++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		neighbours = neighbours[:0]
		for id := 0; id < n; id++ {
			if !candidate.Contains(id) && !memory.Forbidden(id) {
				neighbours = append(neighbours, id)
			}
		}

		moved := false
		if len(neighbours) == 0 {
			if t.Policy == PolicyStopOnExhaustion {
				break
			}
			memory.Release()
		} else {
			pick, pickHeight := neighbours[0], candidate.Try(neighbours[0])
			for _, id := range neighbours[1:] {
				if h := candidate.Try(id); h > pickHeight {
					pick, pickHeight = id, h
				}
			}
			candidate.Apply(pick)
			moved = true
		}

		improved := candidate.Height() > best.Height()
		if improved {
			best = candidate.Clone()
			stall = t.MaxIterations
		} else {
			stall--
		}

		if moved {
			memory.Push(nextQueue(), candidate.Evicted())
		}

		if t.Progress != nil {
			t.Progress(Progress{
				Iteration: iter,
				Stall:     stall,
				Current:   candidate.Height(),
				Best:      best.Height(),
				Improved:  improved,
				Moved:     moved,
				Tabu:      memory.ForbiddenCount(),
			})
		}
	}
	return best, nil
}

// queuePicker returns a function yielding the queue for the next evicted set.
func (t TabuSearch) queuePicker(queues int) func() int {
	if t.Selection == SelectRandom {
		rng := rand.New(rand.NewPCG(t.Seed, t.Seed^0xdeadbeef))
		return func() int { return rng.IntN(queues) }
	}
	next := 0
	return func() int {
		q := next
		next = (next + 1) % queues
		return q
	}
}
