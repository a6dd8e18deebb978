// cmd/uiprobe/validate.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/valpere/UIProbe/internal/cases"
	"github.com/valpere/UIProbe/internal/errors"
	"github.com/valpere/UIProbe/internal/fixture"
)

func getCmdValidate(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and test data",
		Long: `Check the suite configuration, the INI base URL and every fixture a
registered case needs, without starting a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return validate(gs, cmd.Flags().Changed("config"))
		},
	}
}

func validate(gs *globalState, explicit bool) error {
	cfg, err := loadConfig(gs, explicit)
	if err != nil {
		return err
	}
	result := cfg.Check()
	for _, w := range result.Warnings {
		fmt.Fprintf(gs.stdout, "%s %s\n", color.YellowString("warning:"), w)
	}

	app, err := cfg.ResolveBaseURL()
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "resolve base URL", err)
	}

	loader := fixture.NewLoader(cfg.Fixtures.Dir)
	seen := map[string]bool{}
	for _, c := range cases.Default().Cases() {
		if c.Fixture == "" || seen[c.Fixture] {
			continue
		}
		seen[c.Fixture] = true
		if _, err := loader.Load(c.Fixture); err != nil {
			return fmt.Errorf("case %s: %w", c.Path(), err)
		}
	}

	ok := color.GreenString("✓")
	fmt.Fprintf(gs.stdout, "%s Configuration is valid (%s)\n", ok, gs.configFile)
	fmt.Fprintf(gs.stdout, "%s Base URL %s (from %s)\n", ok, app.BaseURL, app.Source)
	fmt.Fprintf(gs.stdout, "%s %d fixture(s) readable from %s\n", ok, len(seen), loader.Source())
	if gs.verbose {
		fmt.Fprintf(gs.stdout, "  Browser: %s (headless %t)\n", cfg.Browser.Name, cfg.Browser.Headless)
		fmt.Fprintf(gs.stdout, "  Formats: %v\n", cfg.Report.Formats)
		fmt.Fprintf(gs.stdout, "  Parallel: %d\n", cfg.Run.Parallel)
	}
	return nil
}
