package flowclient

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

// fakeFlowAPI scripts StartFlow/FlowStatus behavior and counts calls.
type fakeFlowAPI struct {
	mu          sync.Mutex
	startErr    error
	simID       string
	statusFn    func(call int) (*flowsim.Snapshot, error)
	statusCalls int
}

func (f *fakeFlowAPI) StartFlow(_ context.Context, _ string, _ api.Objective) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	if f.simID == "" {
		f.simID = "flow_test"
	}
	return f.simID, nil
}

func (f *fakeFlowAPI) FlowStatus(_ context.Context, _ string) (*flowsim.Snapshot, error) {
	f.mu.Lock()
	f.statusCalls++
	call := f.statusCalls
	fn := f.statusFn
	f.mu.Unlock()
	if fn == nil {
		snap := flowsim.DefaultSnapshot()
		snap.Status = flowsim.StatusRunning
		return &snap, nil
	}
	return fn(call)
}

func (f *fakeFlowAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func runningSnap(step int) *flowsim.Snapshot {
	snap := flowsim.DefaultSnapshot()
	snap.Status = flowsim.StatusRunning
	snap.CurrentStep = step
	return &snap
}

func completedSnap(tokens int) *flowsim.Snapshot {
	snap := flowsim.DefaultSnapshot()
	snap.Status = flowsim.StatusCompleted
	snap.CurrentStep = flowsim.TotalSteps
	for _, n := range flowsim.Stages {
		snap.Nodes[n] = flowsim.StateCompleted
	}
	for _, c := range flowsim.Connections {
		snap.Connections[c] = flowsim.StateCompleted
	}
	snap.Metrics = flowsim.Metrics{ProcessingTime: 5.0, DocumentsRetrieved: 3, ChunksProcessed: 12, TokensUsed: tokens}
	return &snap
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestController(f *fakeFlowAPI, onUpdate func(flowsim.Snapshot)) *Controller {
	return NewController(f, Options{
		PollInterval: 5 * time.Millisecond,
		Logger:       quietLogger(),
		OnUpdate:     onUpdate,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartFailureIsFatal(t *testing.T) {
	f := &fakeFlowAPI{startErr: errors.New("backend down")}
	c := newTestController(f, nil)

	err := c.Start(context.Background(), "q", api.ObjectiveInformative)
	if err == nil {
		t.Fatal("expected start error")
	}
	if c.State() != StateError {
		t.Errorf("expected error state, got %q", c.State())
	}
	if c.Err() == nil {
		t.Error("expected recorded error")
	}

	// No poll loop may have started.
	time.Sleep(30 * time.Millisecond)
	if f.calls() != 0 {
		t.Errorf("no polls expected after failed start, saw %d", f.calls())
	}
}

func TestStartRequiresIdle(t *testing.T) {
	f := &fakeFlowAPI{}
	c := newTestController(f, nil)

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Reset()

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); !errors.Is(err, ErrNotIdle) {
		t.Errorf("expected ErrNotIdle, got %v", err)
	}
}

// The step-4-then-completed scenario: the first poll must show 4/16, the
// second must complete the run, cancel the ticker, and retain the final
// metrics.
func TestPollProgressionToCompleted(t *testing.T) {
	f := &fakeFlowAPI{
		statusFn: func(call int) (*flowsim.Snapshot, error) {
			if call == 1 {
				return runningSnap(4), nil
			}
			return completedSnap(512), nil
		},
	}

	var mu sync.Mutex
	var seen []flowsim.Snapshot
	// A wider tick spacing keeps the two poll responses strictly ordered.
	c := NewController(f, Options{
		PollInterval: 25 * time.Millisecond,
		Logger:       quietLogger(),
		OnUpdate: func(s flowsim.Snapshot) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		},
	})

	if err := c.Start(context.Background(), "q", api.ObjectiveBenchmark); err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, "completion", func() bool { return c.State() == StateCompleted })

	mu.Lock()
	first := seen[0]
	mu.Unlock()
	if first.CurrentStep != 4 {
		t.Errorf("first applied snapshot: step %d, want 4", first.CurrentStep)
	}

	final := c.Snapshot()
	if final.CurrentStep != flowsim.TotalSteps {
		t.Errorf("final step %d, want %d", final.CurrentStep, flowsim.TotalSteps)
	}
	if final.Metrics.TokensUsed != 512 {
		t.Errorf("final tokens %d, want 512", final.Metrics.TokensUsed)
	}

	// Once completed, no further poll requests may be issued.
	settled := f.calls()
	time.Sleep(50 * time.Millisecond)
	if f.calls() != settled {
		t.Errorf("polling continued after completion: %d -> %d", settled, f.calls())
	}
}

func TestPollFailureIsSwallowed(t *testing.T) {
	f := &fakeFlowAPI{
		statusFn: func(call int) (*flowsim.Snapshot, error) {
			if call == 1 {
				return nil, &api.NetworkError{URL: "http://x/flow/flow_test", Err: errors.New("timeout")}
			}
			return runningSnap(call), nil
		},
	}
	c := newTestController(f, nil)

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Reset()

	// Wait until a success after the failure has been applied.
	waitFor(t, "a successful poll", func() bool { return c.Snapshot().CurrentStep > 0 })

	if c.State() != StateRunning {
		t.Errorf("poll failure must not leave running, got %q", c.State())
	}
}

func TestStartThenImmediateReset(t *testing.T) {
	f := &fakeFlowAPI{
		statusFn: func(call int) (*flowsim.Snapshot, error) {
			return runningSnap(7), nil
		},
	}
	c := newTestController(f, nil)

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Reset()

	if c.State() != StateIdle {
		t.Fatalf("expected idle after reset, got %q", c.State())
	}
	if c.SimulationID() != "" {
		t.Errorf("expected cleared simulation ID, got %q", c.SimulationID())
	}

	// Give any stray tick or in-flight poll every chance to fire, then
	// verify nothing overwrote the canonical snapshot.
	time.Sleep(50 * time.Millisecond)
	snap := c.Snapshot()
	if snap.CurrentStep != 0 || snap.Status != flowsim.StatusIdle {
		t.Errorf("late poll overwrote reset state: %+v", snap)
	}
	for name, state := range snap.Nodes {
		if state != flowsim.StateWaiting {
			t.Errorf("node %s not waiting after reset: %q", name, state)
		}
	}
	if snap.Metrics != (flowsim.Metrics{}) {
		t.Errorf("metrics not zeroed after reset: %+v", snap.Metrics)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	f := &fakeFlowAPI{}
	c := newTestController(f, nil)

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Start: %v", err)
	}

	c.Stop()
	stateAfterOne := c.State()
	snapAfterOne := c.Snapshot()

	c.Stop()
	if c.State() != stateAfterOne {
		t.Errorf("second stop changed state: %q -> %q", stateAfterOne, c.State())
	}
	after := c.Snapshot()
	if after.CurrentStep != snapAfterOne.CurrentStep || after.Status != snapAfterOne.Status {
		t.Error("second stop changed the snapshot")
	}

	calls := f.calls()
	time.Sleep(50 * time.Millisecond)
	if f.calls() != calls {
		t.Errorf("polling continued after stop: %d -> %d", calls, f.calls())
	}
}

// An older response arriving after a newer one must not roll the snapshot
// back.
func TestOutOfOrderResponseDiscarded(t *testing.T) {
	f := &fakeFlowAPI{}
	c := newTestController(f, nil)

	if err := c.Start(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Reset()

	waitFor(t, "running state", func() bool { return c.State() == StateRunning })

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	c.apply(epoch, runningSnap(9))
	c.apply(epoch, runningSnap(5)) // late arrival of an older response

	if got := c.Snapshot().CurrentStep; got != 9 {
		t.Errorf("older response overwrote newer state: step %d, want 9", got)
	}

	// A response from a dead epoch is ignored entirely.
	c.apply(epoch-1, runningSnap(12))
	if got := c.Snapshot().CurrentStep; got != 9 {
		t.Errorf("stale-epoch response applied: step %d, want 9", got)
	}
}

func TestAttach(t *testing.T) {
	f := &fakeFlowAPI{
		statusFn: func(call int) (*flowsim.Snapshot, error) {
			return completedSnap(1250), nil
		},
	}
	c := newTestController(f, nil)

	if err := c.Attach("query_abc"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if c.SimulationID() != "query_abc" {
		t.Errorf("simulation ID %q, want query_abc", c.SimulationID())
	}

	waitFor(t, "completion", func() bool { return c.State() == StateCompleted })
}
