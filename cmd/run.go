package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Insert stubs into a file or source tree",
		Long: `Run inserts stub code below every anchor comment found under root.
Directory runs back up the tree first and collect the rewritten files in a
timestamped sibling directory; a single-file run writes one .stub copy
next to the source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsertion(cmd, m.Path(args[0]))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
