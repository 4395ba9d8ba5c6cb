package commands

import (
	"fmt"

	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/spf13/cobra"
)

func NewChecksCmd(registry audit.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the registered checks in run order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := registry.ListChecks()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checks registered")
				return nil
			}
			for i, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
			}
			return nil
		},
	}
}
