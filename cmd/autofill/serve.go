package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autofill-agent/internal/adapter/httpapi"
	"autofill-agent/internal/di"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var addr string
	var headless bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the autofill API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd, root)
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = headless
			}

			httpCfg := httpapi.DefaultConfig()
			if cfg.HTTPAddr != "" {
				httpCfg.Addr = cfg.HTTPAddr
			}
			if cmd.Flags().Changed("addr") {
				httpCfg.Addr = addr
			}

			container, err := di.NewContainer(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			defer container.Close()

			srv := httpapi.NewServer(httpCfg, container.Handler, container.Logger.WithField("component", "http"))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", httpapi.DefaultConfig().Addr, "listen address")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a window")
	return cmd
}
