// Package render draws a tower of boxes as SVG.
//
// # Overview
//
// A tower is converted to Graphviz DOT by [ToDOT]: one fixed-size node per
// box, sized in proportion to the box's width and height, stacked bottom to
// top with invisible edges. [RenderSVG] lays the DOT out in-process with
// [github.com/goccy/go-graphviz], so no Graphviz installation is needed.
//
//	dot := render.ToDOT(tower, render.Options{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
package render
