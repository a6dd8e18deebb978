// cmd/uiprobe/list.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/UIProbe/internal/cases"
	"github.com/valpere/UIProbe/internal/errors"
	"github.com/valpere/UIProbe/internal/suite"
)

type listCmd struct {
	gs   *globalState
	run  string
	skip string
	tags []string
}

func getCmdList(gs *globalState) *cobra.Command {
	c := &listCmd{gs: gs}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered test cases",
		Args:  cobra.NoArgs,
		RunE:  c.list,
	}
	cmd.Flags().StringVar(&c.run, "run", "", "only list cases whose path matches this regular expression")
	cmd.Flags().StringVar(&c.skip, "skip", "", "hide cases whose path matches this regular expression")
	cmd.Flags().StringSliceVarP(&c.tags, "tag", "t", nil, "only list cases with one of these tags")
	return cmd
}

func (c *listCmd) list(_ *cobra.Command, _ []string) error {
	filter, err := suite.NewFilter(c.run, c.skip, c.tags)
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "case filter", err)
	}
	selected := cases.Default().Select(filter)

	w := tabwriter.NewWriter(c.gs.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tTAGS\tFIXTURE")
	for _, tc := range selected {
		fixtureName := tc.Fixture
		if fixtureName == "" {
			fixtureName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tc.Path(), strings.Join(tc.Tags, ","), fixtureName)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.gs.stdout, "\n%d case(s)\n", len(selected))
	return nil
}
