// Package cmd provides the root command and CLI setup for stubweave.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mouse-blink/stubweave/internal/adapter"
	"github.com/mouse-blink/stubweave/internal/config"
	"github.com/mouse-blink/stubweave/internal/controller"
	"github.com/mouse-blink/stubweave/internal/domain"
	m "github.com/mouse-blink/stubweave/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var ui controller.UI
var logger *zap.Logger

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
}

var stubsFlag string
var configFlag string
var workersFlag int
var blanketFlag bool
var noBackupFlag bool
var noTTYFlag bool
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stubweave [root]",
		Short: "Insert test stubs into C sources at anchor comments",
		Long: `Stubweave scans C source trees for anchor comments and inserts the
matching stub code below them, writing the result to .stub copies and
leaving the originals untouched.

Two anchor styles are supported:
  - // TC001 STEP1 segment1     resolved against a YAML stub file
  - // TC001 STEP1:             followed by an inline code directive
    // code: printf("...");     (or a /* code: ... */ block)`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			zapConfig := zap.NewProductionConfig()
			if verboseFlag {
				zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			var err error

			logger, err = zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsertion(cmd, m.Path(args[0]))
		},
	}

	cmd.PersistentFlags().StringVarP(&stubsFlag, "stubs", "f", "", "YAML file with stub code fragments")
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().IntVarP(&workersFlag, "workers", "p", 0, "number of parallel workers (overrides config)")
	cmd.PersistentFlags().BoolVar(&blanketFlag, "blanket-insert", false, "insert the whole stub table into anchor-less files")
	cmd.PersistentFlags().BoolVar(&noBackupFlag, "no-backup", false, "skip the pre-run backup of the source tree")
	cmd.PersistentFlags().BoolVar(&noTTYFlag, "no-tty", false, "force plain text output")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()

	if configFlag != "" {
		loaded, err := config.Load(configFlag)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if workersFlag > 0 {
		cfg.Workers = workersFlag
	}

	if blanketFlag {
		cfg.BlanketInsert = true
	}

	if noBackupFlag {
		cfg.Backup = false
	}

	return cfg, nil
}

// buildWorkflow assembles the workflow from the current flag set. The
// fragment table is only loaded when a stubs file was given; without one,
// resolution is limited to inline-code anchors.
func buildWorkflow(events domain.Events) (domain.Workflow, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fileIO := adapter.NewLocalFileIO(cfg.OutputSuffix, cfg.FallbackEncodings)
	store := adapter.NewYAMLTableStore(fileIO)

	var table *m.FragmentTable

	if stubsFlag != "" {
		table, err = store.Load(m.Path(stubsFlag))
		if err != nil {
			return nil, fmt.Errorf("loading stubs %s: %w", stubsFlag, err)
		}

		logger.Info("fragment table loaded",
			zap.String("file", stubsFlag),
			zap.Int("fragments", table.Len()))
	}

	return domain.NewWorkflow(cfg, table, fsAdapter, fileIO, store, events, logger), nil
}

// runInsertion processes a single file or a whole directory depending on
// what the root argument points at.
func runInsertion(cmd *cobra.Command, root m.Path) error {
	if noTTYFlag {
		ui = controller.NewSimpleUI(cmd)
	}

	workflow, err := buildWorkflow(ui)
	if err != nil {
		return err
	}

	info, err := fsAdapter.FileInfo(root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}

	if !info.IsDir() {
		outcome := workflow.ProcessFile(root)

		ui.FileFinished(outcome, 0, 1)

		return outcome.Err
	}

	stats, err := workflow.ProcessDirectory(root)
	if err != nil {
		return err
	}

	if waitErr := ui.Wait(); waitErr != nil {
		return waitErr
	}

	if stats.FailedFiles > 0 {
		return fmt.Errorf("%d file(s) failed", stats.FailedFiles)
	}

	return nil
}
