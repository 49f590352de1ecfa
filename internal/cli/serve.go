package cli

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/spf13/cobra"

	"secretsanta/internal/config"
	"secretsanta/internal/handlers"
	"secretsanta/internal/notify"
	"secretsanta/internal/services"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gift exchange HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, opts.envFile)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			ttl, err := cfg.TTL()
			if err != nil {
				return err
			}

			santaService := services.NewSantaService()

			var dispatcher notify.Dispatcher
			if cfg.SMTP.Username != "" {
				dispatcher = notify.NewSMTPDispatcher(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.Subject)
			} else {
				logger.Warning("SMTP credentials not set, notifications are disabled")
			}
			httpHandler := handlers.NewHTTPHandler(santaService, dispatcher)

			r := gin.Default()
			httpHandler.RegisterPublicRoutes(r)

			tenantRoutes := r.Group("/")
			tenantRoutes.Use(httpHandler.TenantMiddleware())
			httpHandler.RegisterTenantRoutes(tenantRoutes)

			// Background janitor for inactive sessions.
			go func() {
				ticker := time.NewTicker(10 * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-cmd.Context().Done():
						return
					case <-ticker.C:
						santaService.CleanUpInactiveSessions(ttl)
					}
				}
			}()

			logger.Infof("Server starting on %s", addr)
			return r.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")
	return cmd
}
