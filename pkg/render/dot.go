package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxtower/pkg/box"
)

// DefaultMaxWidth is the drawn width, in inches, of the widest box.
const DefaultMaxWidth = 4.0

// minSide keeps very flat or narrow boxes visible.
const minSide = 0.05

var fills = [...]string{"#f4e3c1", "#d9c29a"}

// Options configures tower rendering.
type Options struct {
	// Labels prints "height width depth" inside each box.
	Labels bool

	// MaxWidth is the drawn width of the widest box in inches.
	// Defaults to DefaultMaxWidth.
	MaxWidth float64
}

// ToDOT converts a tower (boxes bottom to top) to Graphviz DOT.
// Widths and heights share one scale so proportions are preserved.
func ToDOT(tower []box.Box, opts Options) string {
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	widest := 1
	for _, b := range tower {
		widest = max(widest, b.Width)
	}
	unit := maxWidth / float64(widest)

	var buf bytes.Buffer
	buf.WriteString("digraph tower {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ranksep=0.02;\n")
	buf.WriteString("  nodesep=0.1;\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [style=invis];\n")
	buf.WriteString("\n")

	for i, b := range tower {
		label := ""
		if opts.Labels {
			label = b.String()
		}
		fmt.Fprintf(&buf, "  b%d [label=%q, width=%s, height=%s, fillcolor=%q];\n",
			i, label, inches(float64(b.Width)*unit), inches(float64(b.Height)*unit), fills[i%len(fills)])
	}
	if len(tower) > 1 {
		buf.WriteString("\n")
	}
	for i := 1; i < len(tower); i++ {
		fmt.Fprintf(&buf, "  b%d -> b%d;\n", i-1, i)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(v float64) string {
	return strconv.FormatFloat(max(v, minSide), 'f', 3, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Tower renders a tower straight to SVG.
func Tower(ctx context.Context, tower []box.Box, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(tower, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one whose
// viewBox starts at the origin, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
