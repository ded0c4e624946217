package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Product discovery assistant with a live RAG pipeline visualization",
	Long: `Discovery answers product-discovery questions framed by an objective
(informative, hypothesis, benchmark, objectives) and visualizes the
RAG pipeline processing each query as a simulated 16-step flow.

Run the backend with "discovery serve", then ask questions with
"discovery query" or watch a simulation with "discovery watch".`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".discovery.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
