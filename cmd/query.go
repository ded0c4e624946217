package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowclient"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/generator"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/ui"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask the discovery assistant a question",
	Long: `Sends a question to the backend and prints the answer. The backend
also starts a flow simulation for the query; --watch attaches the live
dashboard to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("objective", "informative", "response framing: informative, hypothesis, benchmark, objectives")
	queryCmd.Flags().Bool("json", false, "output the full result as JSON")
	queryCmd.Flags().Bool("html", false, "output the answer as rendered HTML")
	queryCmd.Flags().Bool("watch", false, "attach the live dashboard to the query's flow simulation")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	objectiveStr, _ := cmd.Flags().GetString("objective")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	htmlOutput, _ := cmd.Flags().GetBool("html")
	watch, _ := cmd.Flags().GetBool("watch")

	objective, err := parseObjective(objectiveStr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	// The query controller fires the flow simulation as a side effect; the
	// hook hands its ID over when --watch wants to attach.
	simIDs := make(chan string, 1)
	qc := flowclient.NewQueryController(client, flowclient.QueryOptions{
		OnSimulation: func(id string) { simIDs <- id },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := qc.Submit(ctx, args[0], objective)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case htmlOutput:
		htmlOut := result.ResponseHTML
		if htmlOut == "" {
			htmlOut, err = generator.RenderHTML(result.Response)
			if err != nil {
				return err
			}
		}
		fmt.Println(htmlOut)
	default:
		fmt.Println(result.Response)
		fmt.Printf("\n— objective=%s tokens=%d time=%s\n",
			result.Metadata.Objective, result.Metadata.TokensUsed, result.Metadata.ProcessingTime)
	}

	if !watch {
		return nil
	}

	// The server reports the simulation it started in the metadata; the
	// hook covers backends that only deliver it via /flow/start.
	simID := result.Metadata.SimulationID
	if simID == "" {
		select {
		case simID = <-simIDs:
		case <-time.After(5 * time.Second):
			log.Printf("no simulation to watch")
			return nil
		}
	}

	ctrl := flowclient.NewController(client, flowclient.Options{
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
	})
	if err := ctrl.Attach(simID); err != nil {
		return err
	}
	defer ctrl.Reset()

	_, err = tea.NewProgram(ui.NewModel(ctrl)).Run()
	return err
}
