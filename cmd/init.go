package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .discovery.yml config interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
