// cmd/uiprobe/version.go
package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func getCmdVersion(gs *globalState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			details := map[string]string{
				"version":    version,
				"build_time": buildTime,
				"git_commit": gitCommit,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}
			if asJSON {
				data, err := json.Marshal(details)
				if err != nil {
					return fmt.Errorf("failed to produce JSON version details: %w", err)
				}
				_, err = fmt.Fprintln(gs.stdout, string(data))
				return err
			}
			_, err := fmt.Fprintf(gs.stdout, "uiprobe %s (commit %s, built %s, %s %s)\n",
				version, gitCommit, buildTime, details["go_version"], details["platform"])
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version details as JSON")
	return cmd
}
