// Package cli implements the santa command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/google/logger"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	envFile    string
	verbose    bool
}

// Execute runs the santa CLI and returns an error if any command fails.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var closer *logger.Logger

	root := &cobra.Command{
		Use:          "santa",
		Short:        "Draw gift exchange assignments that respect family groups",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			closer = logger.Init("secretsanta", opts.verbose, false, io.Discard)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closer != nil {
				closer.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load secrets from this file instead of .env")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to the console")

	root.AddCommand(newDrawCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}
