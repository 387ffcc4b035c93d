package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/stubweave/internal/controller"
	"github.com/mouse-blink/stubweave/internal/domain"
	m "github.com/mouse-blink/stubweave/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List source files and the stubs they would receive",
		Long: `List performs a dry run: it scans every matching file under root and
reports how many stubs each would receive and which anchors cannot be
resolved, without writing anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noTTYFlag {
				ui = controller.NewSimpleUI(cmd)
			}

			workflow, err := buildWorkflow(domain.NopEvents{})
			if err != nil {
				return err
			}

			estimates, err := workflow.Estimate(m.Path(args[0]))

			return ui.DisplayEstimates(estimates, err)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
