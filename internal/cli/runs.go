package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/store"
)

const defaultRunsLimit = 20

// runsCommand creates the run history command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse the local run history",
		Long: `Browse the runs recorded by 'solve --save'.

Runs are stored as JSON files in the store directory of the configuration
(default: ~/.config/boxtower/runs).`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	limit := defaultRunsLimit
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRunsList(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "maximum number of runs")
	return cmd
}

func (c *CLI) runRunsList(ctx context.Context, limit int) error {
	st, err := c.newStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printInfo("No runs recorded")
		printNextStep("Record one", appName+" solve --save -e boxes.txt")
		return nil
	}
	fmt.Println(runsTable(runs))
	return nil
}

// runsTable renders one row per run.
func runsTable(runs []*store.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		cached := ""
		if r.Cached {
			cached = iconCached
		}
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Algorithm,
			fmt.Sprintf("%d/%d", len(r.Boxes), len(r.Input)),
			fmt.Sprint(r.Height),
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			cached,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Algorithm", "Boxes", "Height", "Time", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return style.Foreground(colorDim)
			case col == 4:
				return style.Foreground(colorCyan)
			case col == 6:
				return style.Foreground(colorGreen)
			}
			return style
		}).
		Render()
}

func (c *CLI) runsShowCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRunsShow(cmd.Context(), args[0], interactive)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the tower interactively")
	return cmd
}

func (c *CLI) runRunsShow(ctx context.Context, id string, interactive bool) error {
	st, err := c.newStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	if interactive {
		return runTowerView(ctx, run.Boxes, fmt.Sprintf("run %s · %s", run.ID[:8], run.Algorithm))
	}

	fmt.Println(StyleTitle.Render("Run " + run.ID))
	printKeyValue("Created", run.CreatedAt.Local().Format(time.RFC1123))
	printKeyValue("Algorithm", run.Algorithm)
	if p := formatParams(run.Params); p != "" {
		printKeyValue("Options", p)
	}
	printKeyValue("Height", fmt.Sprint(run.Height))
	printKeyValue("Boxes", fmt.Sprintf("%d of %d", len(run.Boxes), len(run.Input)))
	printKeyValue("Time", (time.Duration(run.DurationMS) * time.Millisecond).String())
	printNewline()
	printTower(run.Boxes)
	return nil
}

// formatParams lists the tabu options of a run, empty for the other
// algorithms.
func formatParams(p store.Params) string {
	var parts []string
	if p.MaxIterations > 0 {
		parts = append(parts, fmt.Sprintf("max_iterations=%d", p.MaxIterations))
	}
	if len(p.Capacities) > 0 {
		caps := make([]string, len(p.Capacities))
		for i, n := range p.Capacities {
			caps[i] = fmt.Sprint(n)
		}
		parts = append(parts, "capacities="+strings.Join(caps, ","))
	}
	if p.Seed != 0 {
		parts = append(parts, fmt.Sprintf("seed=%d", p.Seed))
	}
	for _, kv := range [][2]string{{"selection", p.Selection}, {"policy", p.Policy}, {"seeder", p.Initial}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, " ")
}

func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete recorded runs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close()
			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			printSuccess("Deleted %d run(s)", len(args))
			return nil
		},
	}
}
