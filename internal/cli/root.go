package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Boxtower stacks boxes into the tallest possible tower",
		Long: `Boxtower solves the box stacking problem: given boxes (height, width, depth)
in a fixed orientation, find the tallest tower in which every box rests on one
that is strictly wider and strictly deeper.

Three algorithms are available: an exact dynamic program (dp), a greedy
heuristic (greedy) and a tabu search seeded by either of them (tabu).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+configPathHint()+")")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func configPathHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
