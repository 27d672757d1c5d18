package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/triage-ai/palisade/services/tool_audit/internal/engine/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules tool-audit runs, in order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME")
		for _, r := range rules.Default() {
			fmt.Fprintf(tw, "%s\t%s\n", r.Code(), r.Name())
		}
		return tw.Flush()
	},
}
