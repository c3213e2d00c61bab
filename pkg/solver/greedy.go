package solver

import (
	"cmp"

	"github.com/matzehuels/boxtower/pkg/box"
)

// Greedy builds a tower in a single pass. Boxes are visited by decreasing
// height + footprint area and a box is kept when the last kept box can
// support it. It is fast and usually suboptimal.
type Greedy struct{}

// Solve implements Solver.
func (Greedy) Solve(boxes []box.Box) ([]box.Box, error) {
	return solveWith(Greedy{}, boxes)
}

func (Greedy) chain(boxes []box.Box) []int {
	order := rankedIndices(boxes, func(a, b box.Box) int {
		return cmp.Compare(int64(b.Height)+b.Area(), int64(a.Height)+a.Area())
	})

	chain := []int{order[0]}
	for _, id := range order[1:] {
		if box.Dominates(boxes[chain[len(chain)-1]], boxes[id]) {
			chain = append(chain, id)
		}
	}
	return chain
}
