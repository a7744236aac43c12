package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kjhansen/streamcapture/internal/config"
	"github.com/kjhansen/streamcapture/internal/httpapi"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP debug API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cache, err := buildCache(cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			led, err := buildLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer led.Close()

			srv := httpapi.NewServer(cfg, cache, led, logger)

			logger.Infof("listening on %s", addr)
			return http.ListenAndServe(addr, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}
