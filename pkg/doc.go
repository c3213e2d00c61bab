// Package pkg holds the libraries behind boxtower.
//
// # Overview
//
// Boxtower stacks boxes (height, width, depth) into the tallest tower in
// which every box rests on one that is strictly wider and strictly deeper.
// Boxes are never rotated. The data flow is:
//
//	box file / JSON request
//	         ↓
//	    [io] or [api] (parse boxes)
//	         ↓
//	    [pipeline] (validate → cache lookup → solve → cache → record run)
//	         ↓
//	    [solver] (dp, greedy, tabu over [stack])
//	         ↓
//	    [render] (Graphviz SVG) / [io] (solution JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/boxtower/pkg/box"
//	    "github.com/matzehuels/boxtower/pkg/solver"
//	)
//
//	boxes := []box.Box{box.New(10, 5, 8), box.New(5, 8, 10), box.New(7, 1, 15)}
//	tower, _ := solver.DynamicProgramming{}.Solve(boxes)
//	height := box.TotalHeight(tower)
//
// # Main Packages
//
// ## Core
//
// [box] - The Box value, the dominance order and chain helpers.
//
// [stack] - A tower under construction with the incremental push move used
// by tabu search.
//
// [solver] - The exact dynamic program, the greedy heuristic and tabu search
// with its FIFO memory.
//
// ## Infrastructure
//
// [cache] - Result cache: file (CLI), Redis (API server) and null backends.
//
// [store] - Run history: memory, file (CLI) and MongoDB (API server).
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for solves, renders, cache and HTTP events.
//
// ## Orchestration and surfaces
//
// [pipeline] - The Runner shared by the CLI and the HTTP API.
//
// [api] - The chi HTTP API.
//
// [io] - Box files and solution JSON.
//
// [render] - Graphviz drawings of a tower.
//
// [errors] - Coded errors shared by every package.
package pkg
