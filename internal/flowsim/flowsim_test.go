package flowsim

import (
	"io"
	"log"
	"testing"
	"time"
)

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()

	if snap.Status != StatusIdle {
		t.Errorf("expected status idle, got %q", snap.Status)
	}
	if snap.CurrentStep != 0 {
		t.Errorf("expected step 0, got %d", snap.CurrentStep)
	}
	if len(snap.Nodes) != len(Stages) {
		t.Fatalf("expected %d nodes, got %d", len(Stages), len(snap.Nodes))
	}
	for name, state := range snap.Nodes {
		if state != StateWaiting {
			t.Errorf("node %s: expected waiting, got %q", name, state)
		}
	}
	for name, state := range snap.Connections {
		if state != StateWaiting {
			t.Errorf("connection %s: expected waiting, got %q", name, state)
		}
	}
	if snap.Metrics != (Metrics{}) {
		t.Errorf("expected zero metrics, got %+v", snap.Metrics)
	}
	if snap.CurrentNodeDetails != nil {
		t.Errorf("expected no node details, got %+v", snap.CurrentNodeDetails)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	snap := DefaultSnapshot()
	snap.CurrentNodeDetails = &NodeDetails{Title: "User Query"}

	clone := snap.Clone()
	clone.Nodes["query"] = StateActive
	clone.Connections["query_classification"] = StateActive
	clone.CurrentNodeDetails.Title = "changed"

	if snap.Nodes["query"] != StateWaiting {
		t.Error("mutating clone nodes affected original")
	}
	if snap.Connections["query_classification"] != StateWaiting {
		t.Error("mutating clone connections affected original")
	}
	if snap.CurrentNodeDetails.Title != "User Query" {
		t.Error("mutating clone details affected original")
	}
}

// TestScriptConsistency checks the backend contract the clients trust:
// after every applied step, at most one node and one connection are
// active, completed stages form a prefix of the pipeline, and metrics
// plus current_step never decrease.
func TestScriptConsistency(t *testing.T) {
	snap := DefaultSnapshot()
	snap.Status = StatusRunning

	var prev Metrics
	prevStep := 0
	for i, st := range script("test query", "informative") {
		snap.apply(st)

		if snap.CurrentStep != i+1 {
			t.Fatalf("step %d: current_step = %d", i+1, snap.CurrentStep)
		}
		if snap.CurrentStep < prevStep {
			t.Fatalf("step %d: current_step went backwards", i+1)
		}
		prevStep = snap.CurrentStep

		active := 0
		for _, state := range snap.Nodes {
			if state == StateActive {
				active++
			}
		}
		for _, state := range snap.Connections {
			if state == StateActive {
				active++
			}
		}
		if active > 1 {
			t.Errorf("step %d: %d simultaneously active stages", i+1, active)
		}

		// Completed nodes must be a prefix of the stage order.
		seenIncomplete := false
		for _, name := range Stages {
			if snap.Nodes[name] == StateCompleted && seenIncomplete {
				t.Errorf("step %d: completed node %s after an incomplete one", i+1, name)
			}
			if snap.Nodes[name] != StateCompleted {
				seenIncomplete = true
			}
		}

		m := snap.Metrics
		if m.ProcessingTime < prev.ProcessingTime ||
			m.DocumentsRetrieved < prev.DocumentsRetrieved ||
			m.ChunksProcessed < prev.ChunksProcessed ||
			m.TokensUsed < prev.TokensUsed {
			t.Errorf("step %d: metrics decreased: %+v -> %+v", i+1, prev, m)
		}
		prev = m
	}

	if snap.Status != StatusCompleted {
		t.Errorf("expected completed after final step, got %q", snap.Status)
	}
	if snap.CurrentStep != TotalSteps {
		t.Errorf("expected %d steps, got %d", TotalSteps, snap.CurrentStep)
	}
	for name, state := range snap.Nodes {
		if state != StateCompleted {
			t.Errorf("node %s not completed at end: %q", name, state)
		}
	}
	for name, state := range snap.Connections {
		if state != StateCompleted {
			t.Errorf("connection %s not completed at end: %q", name, state)
		}
	}
	if snap.Metrics.TokensUsed != 1250 {
		t.Errorf("expected 1250 tokens at end, got %d", snap.Metrics.TokensUsed)
	}
}

func TestEngineRunsToCompletion(t *testing.T) {
	e := NewEngine(Options{
		Speed:  1000, // compress the ~13s script to ~13ms
		Logger: log.New(io.Discard, "", 0),
	})

	id := e.Start("which user profiles exist?", "informative")
	if id == "" {
		t.Fatal("expected a simulation ID")
	}

	snap, err := e.Snapshot(id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Status != StatusRunning {
		t.Errorf("expected running at start, got %q", snap.Status)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap, err = e.Snapshot(id)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snap.Status == StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run did not complete, stuck at step %d", snap.CurrentStep)
		}
		time.Sleep(time.Millisecond)
	}

	if snap.CurrentStep != TotalSteps {
		t.Errorf("expected step %d, got %d", TotalSteps, snap.CurrentStep)
	}
	if e.Active() != 0 {
		t.Errorf("expected 0 active runs, got %d", e.Active())
	}
}

func TestEngineUnknownID(t *testing.T) {
	e := NewEngine(Options{Logger: log.New(io.Discard, "", 0)})
	if _, err := e.Snapshot("flow_nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEngineEvictsAfterRetention(t *testing.T) {
	e := NewEngine(Options{
		Speed:     1000,
		Retention: 10 * time.Millisecond,
		Logger:    log.New(io.Discard, "", 0),
	})

	id := e.Start("q", "informative")

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, err := e.Snapshot(id)
		if err == ErrNotFound {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("run was never evicted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
