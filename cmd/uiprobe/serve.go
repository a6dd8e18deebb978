// cmd/uiprobe/serve.go
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/UIProbe/internal/errors"
	"github.com/valpere/UIProbe/internal/logging"
	"github.com/valpere/UIProbe/internal/monitoring"
)

func getCmdServe(gs *globalState) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports, health and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(gs, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Metrics.Listen
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return errors.Wrap(errors.CategoryConfig, "create logger", err)
			}
			defer logger.Sync()

			health := monitoring.NewHealthManager(version)
			health.RegisterCheck(monitoring.DirectoryHealthCheck("reports", cfg.Artifacts.ReportDir))
			health.RegisterCheck(monitoring.GoroutineHealthCheck(10000))
			if u := cfg.Browser.WebDriverURL; u != "" {
				health.RegisterCheck(monitoring.HTTPHealthCheck("webdriver", strings.TrimSuffix(u, "/")+"/status", false))
			}

			srv := monitoring.NewServer(monitoring.ServerConfig{
				Listen:    listen,
				ReportDir: cfg.Artifacts.ReportDir,
			}, monitoring.NewMetrics(monitoring.MetricsConfig{EnableGoMetrics: true}), health, logger)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default metrics.listen)")
	return cmd
}
