package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/sentinel-audit/pkg/runtime/terminal"
	"github.com/de-tools/sentinel-audit/pkg/services/audit"
	"github.com/de-tools/sentinel-audit/pkg/services/config"
	"github.com/de-tools/sentinel-audit/pkg/services/sentinel"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: audit.DefaultRegistry(),
		Sources: func(_ context.Context, cfg *config.Config) (audit.DataSource, error) {
			return sentinel.Open(sentinel.Options{
				SubscriptionID: cfg.SubscriptionID,
				TenantID:       cfg.TenantID,
				Credential:     cfg.Credential,
			})
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
