package solver

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// Solver builds a tower from a set of boxes.
// The returned slice lists the chosen boxes bottom to top.
type Solver interface {
	Solve(boxes []box.Box) ([]box.Box, error)
}

// ContextSolver is a Solver that supports cancellation via a context.
// On cancellation it returns the best tower found so far, if any, together
// with the context error.
type ContextSolver interface {
	Solver
	SolveContext(ctx context.Context, boxes []box.Box) ([]box.Box, error)
}

// Algorithm names a stacking algorithm.
type Algorithm string

const (
	AlgorithmGreedy Algorithm = "greedy"
	AlgorithmDP     Algorithm = "dp"
	AlgorithmTabu   Algorithm = "tabu"
)

var algorithmAliases = map[string]Algorithm{
	"greedy":              AlgorithmGreedy,
	"glouton":             AlgorithmGreedy,
	"dp":                  AlgorithmDP,
	"progdyn":             AlgorithmDP,
	"dynamic-programming": AlgorithmDP,
	"tabu":                AlgorithmTabu,
	"tabou":               AlgorithmTabu,
	"tabu-search":         AlgorithmTabu,
}

// Algorithms returns the canonical algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmGreedy, AlgorithmDP, AlgorithmTabu}
}

// ParseAlgorithm resolves a canonical name or alias, case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	if a, ok := algorithmAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidAlgorithm,
		"unknown algorithm %q (must be one of: greedy, dp, tabu)", name)
}

// chainer is implemented by solvers that can report their tower as indices
// into the input, which keeps duplicate-valued boxes apart.
type chainer interface {
	chain(boxes []box.Box) []int
}

// solveWith validates boxes and runs c.
func solveWith(c chainer, boxes []box.Box) ([]box.Box, error) {
	if err := box.ValidateAll(boxes); err != nil {
		return nil, err
	}
	return box.Pick(boxes, c.chain(boxes)), nil
}

// rankedIndices returns the indices of boxes stably sorted by compare.
func rankedIndices(boxes []box.Box, compare func(a, b box.Box) int) []int {
	idx := make([]int, len(boxes))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return compare(boxes[a], boxes[b])
	})
	return idx
}
