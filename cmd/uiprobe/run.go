// cmd/uiprobe/run.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/artifacts"
	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/cases"
	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/errors"
	"github.com/valpere/UIProbe/internal/fixture"
	"github.com/valpere/UIProbe/internal/logging"
	"github.com/valpere/UIProbe/internal/monitoring"
	"github.com/valpere/UIProbe/internal/output"
	"github.com/valpere/UIProbe/internal/page"
	"github.com/valpere/UIProbe/internal/suite"
)

type runCmd struct {
	gs        *globalState
	overrides config.Overrides
	headless  bool
}

func getCmdRun(gs *globalState) *cobra.Command {
	c := &runCmd{gs: gs}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test cases",
		Long: `Run the registered test cases against the application and write the reports.

Cases are selected by path (module/name) with --run and --skip, and by tag.`,
		Example: `  uiprobe run --browser firefox --headless
  uiprobe run --run '^elements/' --skip 'broken_links' --parallel 4
  uiprobe run --tag smoke --base-url https://demoqa.com`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&c.overrides.Browser, "browser", "b", "", "browser to drive: chrome, firefox or edge")
	flags.BoolVar(&c.headless, "headless", false, "run the browser headless")
	flags.StringVar(&c.overrides.BaseURL, "base-url", "", "override COMMON/BaseURL from the INI file")
	flags.IntVarP(&c.overrides.Parallel, "parallel", "p", 0, "number of cases run at once")
	flags.StringVar(&c.overrides.ReportDir, "report-dir", "", "directory for reports")
	flags.StringVar(&c.overrides.Run, "run", "", "only run cases whose path matches this regular expression")
	flags.StringVar(&c.overrides.Skip, "skip", "", "skip cases whose path matches this regular expression")
	flags.StringSliceVarP(&c.overrides.Tags, "tag", "t", nil, "only run cases with one of these tags")
	return cmd
}

func (c *runCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.gs, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		c.overrides.Headless = &c.headless
	}
	if err := cfg.ApplyOverrides(c.overrides); err != nil {
		return errors.Wrap(errors.CategoryConfig, "apply command line flags", err)
	}
	app, err := cfg.ResolveBaseURL()
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "resolve base URL", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "create logger", err)
	}
	defer logger.Sync()

	filter, err := suite.NewFilter(cfg.Run.Run, cfg.Run.Skip, cfg.Run.Tags)
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "case filter", err)
	}
	selected := cases.Default().Select(filter)
	if len(selected) == 0 {
		return errors.Wrap(errors.CategoryConfig, "select cases", fmt.Errorf("no cases match the filters"))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sum, bcfg, err := c.execute(ctx, cfg, app.BaseURL, selected, logger)
	if err != nil && sum == nil {
		return err
	}
	runErr := err

	report := output.NewReport(cfg.Project.Name, sum,
		output.BuildMetadata(cfg.Project, cfg.Report.Metadata, nil),
		output.CurrentEnvironment(string(bcfg.Name), bcfg.Headless, app.BaseURL))
	mgr, err := output.NewManager(cfg.Report, cfg.Artifacts.ReportDir, logger)
	if err != nil {
		return errors.Wrap(errors.CategoryReport, "report manager", err)
	}
	paths, werr := mgr.Write(context.WithoutCancel(ctx), report)
	for _, p := range paths {
		fmt.Fprintf(c.gs.stdout, "Report: %s\n", p)
	}

	switch {
	case runErr != nil:
		return runErr
	case werr != nil:
		return errors.Wrap(errors.CategoryReport, "write reports", werr)
	case !sum.Passed():
		counts := sum.Counts()
		return fmt.Errorf("%d failed, %d errored: %w",
			counts[suite.StatusFailed], counts[suite.StatusErrored], errors.ErrTestsFailed)
	}
	return nil
}

// execute builds the launcher and runner and runs the selected cases.
func (c *runCmd) execute(ctx context.Context, cfg *config.SuiteConfig, baseURL string, selected []suite.Case, logger *zap.Logger) (*suite.Summary, *browser.BrowserConfig, error) {
	bcfg := cfg.Browser
	bcfg.StartURL = baseURL
	if bcfg.DownloadDir == "" {
		bcfg.DownloadDir = filepath.Join(cfg.Artifacts.ReportDir, "downloads")
	}
	dl, err := filepath.Abs(bcfg.DownloadDir)
	if err != nil {
		return nil, &bcfg, err
	}
	bcfg.DownloadDir = dl
	if err := os.MkdirAll(dl, 0755); err != nil {
		return nil, &bcfg, errors.Wrap(errors.CategoryConfig, "create download directory", err)
	}

	opts := []browser.LauncherOption{}
	if c.gs.opener != nil {
		opts = append(opts, browser.WithOpener(c.gs.opener))
	}

	var metrics suite.Metrics
	if cfg.Metrics.Enabled {
		m := monitoring.NewMetrics(monitoring.MetricsConfig{EnableGoMetrics: true})
		metrics = m
		opts = append(opts, browser.WithLiveSessionHook(m.SessionsLive))

		srv := monitoring.NewServer(monitoring.ServerConfig{
			Listen:    cfg.Metrics.Listen,
			ReportDir: cfg.Artifacts.ReportDir,
		}, m, nil, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Warn("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	launcher := browser.NewLauncher(&bcfg, cfg.Run.Parallel, logger, opts...)
	defer launcher.Close()

	store, err := artifacts.NewStore(cfg.Artifacts.ScreenshotDir, logger)
	if err != nil {
		return nil, &bcfg, errors.Wrap(errors.CategoryConfig, "screenshot directory", err)
	}

	runner, err := suite.NewRunner(suite.Options{
		Launcher:    launcher,
		Fixtures:    fixture.NewLoader(cfg.Fixtures.Dir),
		Screenshots: store,
		Timeouts: page.Timeouts{
			Implicit:      cfg.Timeouts.Implicit,
			Explicit:      cfg.Timeouts.Explicit,
			Poll:          cfg.Timeouts.Poll,
			ClickAttempts: cfg.Timeouts.ClickAttempts,
			MaxScrolls:    cfg.Timeouts.MaxScrolls,
		},
		CaseTimeout: cfg.Timeouts.Case,
		Parallel:    cfg.Run.Parallel,
		BaseURL:     baseURL,
		DownloadDir: dl,
		DataDir:     cfg.Fixtures.DataDir,
		Logger:      logger,
		Listeners:   []suite.Listener{suite.NewConsoleListener(c.gs.stdout, c.gs.verbose)},
		Metrics:     metrics,
	})
	if err != nil {
		return nil, &bcfg, err
	}

	logger.Info("Starting run",
		zap.String("browser", string(bcfg.Name)),
		zap.Bool("headless", bcfg.Headless),
		zap.String("base_url", baseURL),
		zap.Int("cases", len(selected)))
	sum, err := runner.Run(ctx, selected)
	return sum, &bcfg, err
}
