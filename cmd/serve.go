package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Discovery backend",
	Long:  `Starts the HTTP backend: the query endpoint, the flow-simulation endpoints the dashboard polls, and the health/metrics surface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newGeneratorFromConfig(cfg)
		if err != nil {
			return err
		}

		engine := flowsim.NewEngine(flowsim.Options{
			Speed: cfg.Simulation.Speed,
		})

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, engine, provider)
		server.Version = Version

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case sig := <-stop:
			log.Printf("received %s, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
