package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justchokingaround/anistream/internal/providers"
)

// providersCmd inspects the configured upstreams
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect upstream providers",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		names := b.registry.List()
		fmt.Printf("Configured providers (%d):\n\n", len(names))
		for _, status := range b.registry.GetProviderStatuses() {
			p, err := b.registry.Get(status.ProviderName)
			if err != nil {
				continue
			}
			fmt.Printf("- %s (%s) %s\n", status.ProviderName, status.Role, p.BaseURL())
		}
		return nil
	},
}

var providersStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Health-check every provider concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		b.registry.CheckAllProviders(context.Background())
		statuses := b.registry.GetProviderStatuses()

		if jsonOutput {
			if err := printJSON(statuses); err != nil {
				return err
			}
		} else {
			stdoutPrinter().Providers(statuses)
		}

		if !b.registry.Healthy() {
			return fmt.Errorf("%s", unhealthySummary(statuses))
		}
		return nil
	},
}

func unhealthySummary(statuses []providers.ProviderStatus) string {
	down := 0
	for _, s := range statuses {
		if !s.Healthy {
			down++
		}
	}
	return fmt.Sprintf("%d of %d providers unhealthy", down, len(statuses))
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersStatusCmd)
	rootCmd.AddCommand(providersCmd)
}
