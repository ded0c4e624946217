package main

import (
	"os"

	"github.com/fernandadias/DiscoveryRAGAgentV2/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
