package solver

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/boxtower/pkg/box"
)

// DynamicProgramming finds the tallest tower exactly in O(n²) time.
type DynamicProgramming struct{}

// Solve implements Solver.
func (DynamicProgramming) Solve(boxes []box.Box) ([]box.Box, error) {
	return solveWith(DynamicProgramming{}, boxes)
}

// SolveContext implements ContextSolver. The exact search has no useful
// intermediate tower, so a cancelled solve returns no boxes.
func (d DynamicProgramming) SolveContext(ctx context.Context, boxes []box.Box) ([]box.Box, error) {
	if err := box.ValidateAll(boxes); err != nil {
		return nil, err
	}
	chain, err := d.chainContext(ctx, boxes)
	if err != nil {
		return nil, err
	}
	return box.Pick(boxes, chain), nil
}

func (d DynamicProgramming) chain(boxes []box.Box) []int {
	chain, _ := d.chainContext(context.Background(), boxes)
	return chain
}

// cancelCheckInterval is how many rows of the table are filled between two
// context checks.
const cancelCheckInterval = 256

func (DynamicProgramming) chainContext(ctx context.Context, boxes []box.Box) ([]int, error) {
	// A box that can support another has a strictly larger footprint, so
	// in this order every supporter precedes the boxes it supports.
	order := rankedIndices(boxes, func(a, b box.Box) int {
		return cmp.Compare(b.Area(), a.Area())
	})
	n := len(order)

	table := make([]int, n) // tallest chain ending on order[j]
	below := make([]int, n) // position of the box beneath, or -1
	for j := 0; j < n; j++ {
		if j%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		top := boxes[order[j]]
		below[j] = -1
		best := 0
		for i := 0; i < j; i++ {
			if table[i] > best && box.Dominates(boxes[order[i]], top) {
				best = table[i]
				below[j] = i
			}
		}
		table[j] = best + top.Height
	}

	end := 0
	for j := 1; j < n; j++ {
		if table[j] > table[end] {
			end = j
		}
	}

	var chain []int
	for k := end; k >= 0; k = below[k] {
		chain = append(chain, order[k])
	}
	slices.Reverse(chain)
	return chain, nil
}
