// Command mamdani is the CLI surface over the inference/classify/learn
// packages: one binary, one subcommand per operation, errors returned from
// RunE and reported by cobra itself (stderr message, non-zero exit).
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/internal/logx"
)

var logLevel string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mamdani",
		Short:        "Mamdani fuzzy inference and Wang-Mendel induction toolkit",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.Init(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	root.AddCommand(
		validateCmd(),
		showCmd(),
		predictCmd(),
		explainCmd(),
		learnCmd(),
		applyCmd(),
		prepareCmd(),
		runCmd(),
	)
	return root
}
