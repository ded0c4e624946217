package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowclient"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [question]",
	Short: "Start a flow simulation and watch it live",
	Long: `Starts a flow simulation for the given question and renders its
progress in the terminal until it completes. Use --plain for a simple
progress bar instead of the full dashboard.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("objective", "informative", "response framing: informative, hypothesis, benchmark, objectives")
	watchCmd.Flags().Bool("plain", false, "progress-bar output instead of the live dashboard")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	objectiveStr, _ := cmd.Flags().GetString("objective")
	plain, _ := cmd.Flags().GetBool("plain")

	objective, err := parseObjective(objectiveStr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	ctrl := flowclient.NewController(client, flowclient.Options{
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ctrl.Start(ctx, args[0], objective); err != nil {
		return err
	}
	defer ctrl.Reset()

	if plain {
		return watchPlain(ctrl)
	}

	_, err = tea.NewProgram(ui.NewModel(ctrl)).Run()
	if err != nil {
		return err
	}

	if ctrl.State() == flowclient.StateCompleted {
		m := ctrl.Snapshot().Metrics
		fmt.Printf("completed in %.1fs — %d docs, %d chunks, %d tokens\n",
			m.ProcessingTime, m.DocumentsRetrieved, m.ChunksProcessed, m.TokensUsed)
	}
	return nil
}

// watchPlain follows the simulation with the non-interactive reporter.
func watchPlain(ctrl *flowclient.Controller) error {
	reporter := ui.NewReporter()
	reporter.Start()
	defer reporter.Finish()

	for {
		switch ctrl.State() {
		case flowclient.StateCompleted:
			reporter.Update(ctrl.Snapshot())
			return nil
		case flowclient.StateStopped, flowclient.StateError, flowclient.StateIdle:
			return ctrl.Err()
		}
		reporter.Update(ctrl.Snapshot())
		time.Sleep(200 * time.Millisecond)
	}
}
