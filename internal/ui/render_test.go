package ui

import (
	"strings"
	"testing"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowclient"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

func TestRenderShowsProgress(t *testing.T) {
	snap := flowsim.DefaultSnapshot()
	snap.Status = flowsim.StatusRunning
	snap.CurrentStep = 4
	snap.Nodes["query"] = flowsim.StateCompleted
	snap.Nodes["classification"] = flowsim.StateCompleted
	snap.Connections["query_classification"] = flowsim.StateCompleted
	snap.Connections["classification_retrieval"] = flowsim.StateActive
	snap.Metrics = flowsim.Metrics{ProcessingTime: 1.0}
	snap.CurrentNodeDetails = &flowsim.NodeDetails{
		Title:       "Objective Classification",
		Description: "Classifying the query",
		Type:        "process",
	}

	out := render(snap, flowclient.StateRunning, false)

	// Step 4 of 16 is 25% progress.
	if !strings.Contains(out, "step 4/16 (25%)") {
		t.Errorf("expected step line with 25%%, got:\n%s", out)
	}
	if !strings.Contains(out, "Objective Classification") {
		t.Error("expected the detail card title")
	}
	if !strings.Contains(out, "tokens 0") {
		t.Error("expected zeroed token metric")
	}
}

func TestRenderCompleted(t *testing.T) {
	snap := flowsim.DefaultSnapshot()
	snap.Status = flowsim.StatusCompleted
	snap.CurrentStep = flowsim.TotalSteps
	snap.Metrics.TokensUsed = 512

	out := render(snap, flowclient.StateCompleted, true)

	if !strings.Contains(out, "step 16/16 (100%)") {
		t.Errorf("expected full progress, got:\n%s", out)
	}
	if !strings.Contains(out, "tokens 512") {
		t.Error("expected final token count")
	}
	if strings.Contains(out, "press q to stop") {
		t.Error("hint should disappear once done")
	}
}
