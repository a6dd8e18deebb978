// cmd/uiprobe/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/errors"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const defaultConfigFile = "uiprobe.yaml"

// globalState is shared by every command.
type globalState struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	verbose    bool

	// opener replaces the real browser backends in tests.
	opener browser.OpenFunc
}

func newRootCmd(gs *globalState) *cobra.Command {
	root := &cobra.Command{
		Use:   "uiprobe",
		Short: "Browser UI test harness for demoqa.com",
		Long: `uiprobe drives a real browser through page objects and reports the results.

Configuration is read from uiprobe.yaml when present; the application base URL
comes from Configuration/config.ini (section COMMON, key BaseURL).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(gs.stdout)
	root.SetErr(gs.stderr)

	root.PersistentFlags().StringVarP(&gs.configFile, "config", "c", defaultConfigFile, "suite configuration file")
	root.PersistentFlags().BoolVarP(&gs.verbose, "verbose", "v", false, "show technical error details and case steps")

	root.AddCommand(
		getCmdRun(gs),
		getCmdList(gs),
		getCmdValidate(gs),
		getCmdServe(gs),
		getCmdVersion(gs),
	)
	return root
}

// loadConfig reads the configuration file. The default file is optional;
// an explicitly named one must exist.
func loadConfig(gs *globalState, explicit bool) (*config.SuiteConfig, error) {
	if _, err := os.Stat(gs.configFile); os.IsNotExist(err) && !explicit {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(gs.configFile)
	if err != nil {
		return nil, errors.Wrap(errors.CategoryConfig, "load "+gs.configFile, err)
	}
	return cfg, nil
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, gs *globalState, args []string) int {
	root := newRootCmd(gs)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	svc := errors.NewService().WithVerbose(gs.verbose)
	fmt.Fprint(gs.stderr, svc.FormatForCLI(err))
	return svc.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	gs := &globalState{stdout: os.Stdout, stderr: os.Stderr}
	code := execute(ctx, gs, os.Args[1:])
	stop()
	os.Exit(code)
}
