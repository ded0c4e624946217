package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend liveness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newAPIClient(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		report, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("backend at %s is unreachable: %w", cfg.BaseURL, err)
		}

		fmt.Printf("%s (%s)\n", report.Status, report.Version)
		names := make([]string, 0, len(report.Components))
		for name := range report.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-10s %s\n", name, report.Components[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
