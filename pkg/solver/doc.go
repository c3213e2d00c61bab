// Package solver provides algorithms that choose and order boxes into the
// tallest tower they can find.
//
// # The Stacking Problem
//
// Given boxes in a fixed orientation, pick a subset and an order such that
// each box is strictly narrower and strictly shallower than the box beneath
// it, maximising total height. Over the dominance order of [box.Dominates]
// this is a longest weighted chain problem.
//
// This package provides three algorithms with different tradeoffs:
//
//   - [Greedy]: one sorting pass, usually suboptimal
//   - [DynamicProgramming]: exact, O(n²)
//   - [TabuSearch]: metaheuristic that improves a greedy or DP seed
//
// # Dynamic Programming
//
// Sorting by decreasing footprint area guarantees that a box appears before
// every box it can support, so a single left-to-right pass computes, for each
// box, the tallest chain ending on it. Following the recorded predecessors
// back from the tallest entry rebuilds the tower.
//
// # Tabu Search
//
// [TabuSearch] starts from a seed tower and repeatedly slots in the unplaced
// box that yields the tallest tower, using [stack.Stack.Push] to evaluate each
// candidate in O(log n + k). The move is applied even when it makes the tower
// shorter. Boxes evicted by a move go into one of several bounded FIFO queues
// ([Memory]) and may not return while they are held there. The search stops
// after MaxIterations consecutive moves without improving the best tower.
//
// # Usage
//
// The [Solver] interface allows algorithms to be used interchangeably:
//
//	var s solver.Solver = solver.DynamicProgramming{}
//	tower, err := s.Solve(boxes) // bottom to top
//
// For tabu search with progress reporting:
//
//	s := solver.TabuSearch{
//	    MaxIterations: 200,
//	    Initial:       solver.AlgorithmDP,
//	    Progress: func(p solver.Progress) {
//	        if p.Improved {
//	            fmt.Printf("iteration %d: height %d\n", p.Iteration, p.Best)
//	        }
//	    },
//	}
//	tower, err := s.Solve(boxes)
//
// # Determinism
//
// Candidates are always scanned in ascending input index and ties keep the
// first candidate. Random tabu queue selection draws from a PCG generator
// seeded with TabuSearch.Seed, so equal inputs and options give equal towers.
//
// # Input Contract
//
// Solvers never reorder the caller's slice. An empty slice fails with
// EMPTY_INPUT and any non-positive dimension with INVALID_BOX.
package solver
