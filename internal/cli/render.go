package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/errors"
	pkgio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // SVG path, derived from the input when empty
	labels   bool    // print dimensions inside the boxes
	maxWidth float64 // width of the widest box in inches
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{labels: true, maxWidth: render.DefaultMaxWidth}

	cmd := &cobra.Command{
		Use:   "render [solution.json]",
		Short: "Render a solution to SVG",
		Long: `Render a solution written by 'solve -o' as an SVG drawing.

Boxes are drawn bottom to top with widths proportional to their width and
heights proportional to their height.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "label boxes with their dimensions")
	cmd.Flags().Float64Var(&opts.maxWidth, "max-width", opts.maxWidth, "width of the widest box in inches")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	out := svgPath(opts.output, input)
	if err := checkSVGPath(out); err != nil {
		return err
	}

	sol, err := pkgio.ImportSolution(input)
	if err != nil {
		return fmt.Errorf("load solution %s: %w", input, err)
	}

	runner, err := c.newRunner(opts.noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering tower...")
	spinner.Start()
	svg, cached, err := runner.RenderWithCacheInfo(ctx, sol.Boxes, render.Options{
		Labels:   opts.labels,
		MaxWidth: opts.maxWidth,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(out, svg, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered")
	printFile(out)
	printStats(len(sol.Boxes), len(sol.Boxes), sol.Height, cached)
	return nil
}

// svgPath returns output, or input with its extension replaced by .svg.
func svgPath(output, input string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
}

// checkSVGPath rejects output paths whose extension names another format.
func checkSVGPath(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" && ext != ".svg" {
		return errors.New(errors.ErrCodeUnsupported, "cannot write %s: only SVG output is supported", path)
	}
	return nil
}
