package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"secretsanta/internal/config"
	"secretsanta/internal/services"
)

func newSimulateCmd(opts *options) *cobra.Command {
	var (
		draws int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "simulate [roster]",
		Short: "Run many draws and report how evenly pairings come up",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, opts.envFile)
			if err != nil {
				return err
			}
			people, err := loadRoster(cfg, args)
			if err != nil {
				return err
			}

			report, err := services.Simulate(people, draws, seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "draws: %d\neligible pairs: %d\n", report.Runs, report.EligiblePairs)
			fmt.Fprintf(out, "pair frequency: mean %.4f stddev %.4f min %.4f max %.4f\n",
				report.Mean, report.StdDev, report.Min, report.Max)
			return nil
		},
	}

	cmd.Flags().IntVarP(&draws, "draws", "n", 1000, "number of draws")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed of the first draw")
	return cmd
}
