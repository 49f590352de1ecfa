package cli

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/logger"
	"github.com/spf13/cobra"

	"secretsanta/internal/config"
	"secretsanta/internal/models"
	"secretsanta/internal/notify"
	"secretsanta/internal/roster"
	"secretsanta/internal/services"
)

func newDrawCmd(opts *options) *cobra.Command {
	var (
		seed   int64
		send   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "draw [roster]",
		Short: "Assign every participant a recipient and print the result",
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

			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			logger.Infof("Drawing %d participants with seed %d", len(people), seed)
			if err := services.NewAssigner(rand.New(rand.NewSource(seed))).Assign(people); err != nil {
				if errors.Is(err, services.ErrInfeasible) {
					return fmt.Errorf("invalid roster: %w", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range people {
				fmt.Fprintf(out, "%s -> %s\n", p, p.Recipient)
			}

			switch {
			case dryRun:
				return notify.DispatchAll(cmd.Context(), &notify.WriterDispatcher{W: out, Subject: cfg.SMTP.Subject}, people)
			case send:
				d := notify.NewSMTPDispatcher(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.Subject)
				return notify.DispatchAll(cmd.Context(), d, people)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible draw")
	cmd.Flags().BoolVar(&send, "send", false, "email every participant their assignment")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the emails instead of sending them")
	return cmd
}

// loadRoster reads the roster named on the command line, falling back to the config file.
func loadRoster(cfg *config.Config, args []string) ([]*models.Participant, error) {
	path := cfg.Roster
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, errors.New("no roster given: pass a file or set roster in the config")
	}
	return roster.Load(path)
}
