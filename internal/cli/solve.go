package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/solver"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	example     string // box file
	output      string // solution JSON path
	svg         string // SVG path
	print       bool   // print the tower, one box per line
	height      bool   // print the tower height
	time        bool   // print the solve time in milliseconds
	noCache     bool
	refresh     bool
	save        bool // record the run in the local history
	interactive bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		opts    solveOpts
		options pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "solve -e FILE",
		Short: "Stack the boxes of a box file",
		Long: `Stack the boxes of a box file into the tallest tower the chosen algorithm finds.

The box file holds one box per line as three integers: height, width and depth.
Blank lines and lines starting with # are ignored.

With -x, -p or -t the command prints plain values for scripts, in that order:
the tower height, the boxes bottom to top, and the solve time in milliseconds.
Otherwise it prints a summary table.

Results are cached locally, keyed by the boxes and the solver options.`,
		Example: `  boxtower solve -e boxes.txt
  boxtower solve -a dp -e boxes.txt -x -t
  boxtower solve -a tabu --max-iterations 500 --capacities 5,6,7 -e boxes.txt -o tower.json --svg tower.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &options)
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), opts, options)
		},
	}

	cmd.Flags().StringVarP(&opts.example, "example", "e", "", "box file (required)")
	cmd.Flags().StringVarP(&options.Algorithm, "algorithm", "a", "", "algorithm: tabu (default), dp, greedy")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the tower, one box per line from the bottom")
	cmd.Flags().BoolVarP(&opts.height, "height", "x", false, "print the tower height")
	cmd.Flags().BoolVarP(&opts.time, "time", "t", false, "print the solve time in milliseconds")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the solution as JSON")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "render the tower to an SVG file")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the tower interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "solve again even if the result is cached")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the local history")

	// Tabu flags
	cmd.Flags().IntVar(&options.MaxIterations, "max-iterations", 0, "tabu: iterations without improvement before stopping")
	cmd.Flags().IntSliceVar(&options.Capacities, "capacities", nil, "tabu: queue capacities (comma-separated)")
	cmd.Flags().Uint64Var(&options.Seed, "seed", 0, "tabu: random seed for queue selection (0 selects the default, 42)")
	cmd.Flags().StringVar(&options.Selection, "selection", "", "tabu: queue selection, round-robin or random")
	cmd.Flags().StringVar(&options.Policy, "policy", "", "tabu: when every box is tabu, diversify or stop")
	cmd.Flags().StringVar(&options.Initial, "seeder", "", "tabu: algorithm for the initial tower, greedy or dp")

	_ = cmd.MarkFlagRequired("example")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", completeAlgorithms)

	return cmd
}

// applyConfig fills options from the configuration file wherever the
// matching flag was not given.
func (c *CLI) applyConfig(cmd *cobra.Command, o *pipeline.Options) {
	cfg := c.Config
	set := func(flag string) bool { return cmd.Flags().Changed(flag) }

	if !set("algorithm") {
		o.Algorithm = cfg.Solve.Algorithm
	}
	if !set("max-iterations") {
		o.MaxIterations = cfg.Tabu.MaxIterations
	}
	if !set("capacities") {
		o.Capacities = cfg.Tabu.Capacities
	}
	if !set("seed") {
		o.Seed = cfg.Tabu.Seed
	}
	if !set("selection") {
		o.Selection = cfg.Tabu.Selection
	}
	if !set("policy") {
		o.Policy = cfg.Tabu.Policy
	}
	if !set("seeder") {
		o.Initial = cfg.Tabu.Seeder
	}
}

func completeAlgorithms(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, a := range solver.Algorithms() {
		names = append(names, string(a))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// runSolve loads the boxes, solves them and writes the requested outputs.
func (c *CLI) runSolve(ctx context.Context, stdout io.Writer, opts solveOpts, options pipeline.Options) error {
	if opts.svg != "" {
		if err := checkSVGPath(opts.svg); err != nil {
			return err
		}
	}

	prog := newProgress(c.Logger)
	boxes, err := pkgio.ImportBoxes(opts.example)
	if err != nil {
		return fmt.Errorf("load boxes %s: %w", opts.example, err)
	}
	prog.done(fmt.Sprintf("Loaded %d boxes", len(boxes)))

	runner, err := c.newRunner(opts.noCache, opts.save)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := options.ValidateAndSetDefaults(); err != nil {
		return err
	}
	options.Logger = c.Logger
	options.Refresh = opts.refresh
	options.Record = opts.save

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Stacking %d boxes (%s)...", len(boxes), options.Algorithm))
	if options.Algorithm == string(solver.AlgorithmTabu) {
		options.Progress = tabuReporter(spinner)
	}
	spinner.Start()

	res, err := runner.Solve(ctx, boxes, options)
	if err != nil {
		if res != nil && res.Partial {
			spinner.Stop()
			printWarning("Interrupted, best tower so far has height %d", res.Height)
			return err
		}
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()

	if opts.print || opts.height || opts.time {
		writePlain(stdout, res, opts)
	} else {
		printSuccess("Stacked %s boxes into a tower of height %s",
			StyleNumber.Render(fmt.Sprint(res.Stats.TowerSize)),
			StyleNumber.Render(fmt.Sprint(res.Height)))
		printStats(res.Stats.BoxCount, res.Stats.TowerSize, res.Height, res.CacheHit)
		printTower(res.Boxes)
	}

	if err := c.writeSolveOutputs(ctx, runner, res, opts); err != nil {
		return err
	}

	if res.Run != nil {
		printDetail("Run %s", res.Run.ID)
	}

	if opts.interactive {
		return runTowerView(ctx, res.Boxes, fmt.Sprintf("%s · %s", filepath.Base(opts.example), res.Algorithm))
	}
	return nil
}

// writePlain prints the script-friendly output selected by -x, -p and -t.
func writePlain(w io.Writer, res *pipeline.Result, opts solveOpts) {
	if opts.height {
		fmt.Fprintln(w, res.Height)
	}
	if opts.print {
		_ = pkgio.WriteBoxes(res.Boxes, w)
	}
	if opts.time {
		fmt.Fprintf(w, "%.3f\n", float64(res.Stats.SolveTime)/float64(time.Millisecond))
	}
}

func (c *CLI) writeSolveOutputs(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, opts solveOpts) error {
	if opts.output != "" {
		sol := pkgio.NewSolution(string(res.Algorithm), res.Boxes)
		if err := pkgio.ExportSolution(sol, opts.output); err != nil {
			return fmt.Errorf("write solution %s: %w", opts.output, err)
		}
		printFile(opts.output)
	}

	if opts.svg != "" {
		svg, err := runner.Render(ctx, res.Boxes, render.Options{Labels: true})
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := os.WriteFile(opts.svg, svg, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.svg, err)
		}
		printFile(opts.svg)
	}

	if opts.output != "" && opts.svg == "" {
		printNextStep("Render", appName+" render "+opts.output)
	}
	return nil
}

// tabuReporter updates the spinner as the tabu search progresses.
func tabuReporter(s *Spinner) func(solver.Progress) {
	base := strings.TrimSuffix(s.Message(), "...")
	return func(p solver.Progress) {
		s.SetMessage(fmt.Sprintf("%s iteration %d, best height %d, %d tabu", base, p.Iteration, p.Best, p.Tabu))
	}
}
