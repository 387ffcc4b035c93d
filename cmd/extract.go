package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/stubweave/internal/model"
)

var extractOutputFlag string

// extractCmd represents the extract command.
var extractCmd = newExtractCmd()

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [root]",
		Short: "Rebuild a stub YAML file from stubbed sources",
		Long: `Extract scans previously stubbed sources under root, collects the code
lines carrying the insertion trace marker, and writes them back out as a
YAML stub file keyed by test case, step and segment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, err := buildWorkflow(nil)
			if err != nil {
				return err
			}

			table, err := workflow.Extract(m.Path(args[0]), m.Path(extractOutputFlag))
			if err != nil {
				return err
			}

			cmd.Printf("Extracted %d stub fragment(s) to %s\n", table.Len(), extractOutputFlag)

			return nil
		},
	}

	cmd.Flags().StringVarP(&extractOutputFlag, "output", "o", "extracted_stubs.yaml", "path of the YAML stub file to write")

	return cmd
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
