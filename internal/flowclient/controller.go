// Package flowclient contains the client-side controllers of the demo: the
// flow-simulation polling controller that drives the visualization, and the
// query controller that submits questions and fires the visualization as a
// best-effort side effect.
package flowclient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

// State is the controller's lifecycle stage.
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
	StateError     State = "error"
)

// FlowAPI is the slice of the backend client the controller needs.
// *api.Client satisfies it.
type FlowAPI interface {
	StartFlow(ctx context.Context, query string, objective api.Objective) (string, error)
	FlowStatus(ctx context.Context, simulationID string) (*flowsim.Snapshot, error)
}

// ErrNotIdle is returned by Start when a simulation is already starting or
// running; callers must Stop or Reset first.
var ErrNotIdle = errors.New("controller is not idle")

// DefaultPollInterval is the cadence at which a running simulation is polled.
const DefaultPollInterval = time.Second

// Options tunes a Controller.
type Options struct {
	// PollInterval overrides DefaultPollInterval.
	PollInterval time.Duration
	// Logger receives swallowed poll errors and lifecycle messages.
	// Defaults to log.Default().
	Logger *log.Logger
	// OnUpdate, when set, is called with a copy of the snapshot after each
	// applied poll response. Called without the controller lock held.
	OnUpdate func(flowsim.Snapshot)
}

// Controller owns the lifecycle of one flow simulation at a time: it issues
// the start request, polls the status at a fixed interval, and replaces its
// snapshot wholesale with each poll response. Poll failures are logged and
// swallowed; only start failures are fatal to the action.
//
// Every mutation of controller state is guarded by an epoch token: Stop and
// Reset bump the epoch, so responses from polls that were in flight when
// the simulation was stopped can never overwrite the state afterwards.
// Within one epoch, a response whose current_step is older than what is
// already applied is discarded, so out-of-order completions cannot roll the
// snapshot back.
type Controller struct {
	apiClient FlowAPI
	interval  time.Duration
	logger    *log.Logger
	onUpdate  func(flowsim.Snapshot)

	mu       sync.Mutex
	state    State
	simID    string
	epoch    uint64
	lastStep int
	snap     flowsim.Snapshot
	lastErr  error
	cancel   context.CancelFunc
}

// NewController creates an idle controller holding the canonical default
// snapshot.
func NewController(apiClient FlowAPI, opts Options) *Controller {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		apiClient: apiClient,
		interval:  interval,
		logger:    logger,
		onUpdate:  opts.OnUpdate,
		state:     StateIdle,
		snap:      flowsim.DefaultSnapshot(),
	}
}

// Start requests a new simulation and, on success, begins the poll loop.
// It is only valid from the idle state; a start failure moves the
// controller to the error state and no poll loop begins.
func (c *Controller) Start(ctx context.Context, query string, objective api.Objective) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	c.state = StateStarting
	c.lastErr = nil
	c.epoch++
	myEpoch := c.epoch
	c.mu.Unlock()

	// The start request runs without the lock; a concurrent Reset bumps
	// the epoch and the result below is discarded.
	simID, err := c.apiClient.StartFlow(ctx, query, objective)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != myEpoch {
		// Reset or Stop won the race; whatever the backend started is
		// simply never polled.
		return nil
	}
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return fmt.Errorf("starting simulation: %w", err)
	}

	c.simID = simID
	c.state = StateRunning
	c.lastStep = 0

	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.pollLoop(pollCtx, simID, myEpoch)
	return nil
}

// Attach begins polling an already-started simulation, e.g. the one a
// query submission fired in the background. Same state rules as Start.
func (c *Controller) Attach(simulationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrNotIdle
	}
	c.epoch++
	c.lastErr = nil
	c.simID = simulationID
	c.state = StateRunning
	c.lastStep = 0

	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.pollLoop(pollCtx, simulationID, c.epoch)
	return nil
}

// pollLoop fires a poll per tick until the loop context is canceled.
// Each poll runs detached so a slow response never delays the next tick;
// apply is responsible for discarding whatever arrives late.
func (c *Controller) pollLoop(ctx context.Context, simID string, epoch uint64) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go c.poll(ctx, simID, epoch)
		}
	}
}

// poll fetches one snapshot. Failures do not affect controller state: the
// simulation stays running and the next tick tries again.
func (c *Controller) poll(ctx context.Context, simID string, epoch uint64) {
	snap, err := c.apiClient.FlowStatus(ctx, simID)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Printf("flowclient: poll %s: %v", simID, err)
		}
		return
	}
	c.apply(epoch, snap)
}

// apply overwrites the snapshot with a poll response, unless the response
// is stale: from a previous epoch, or older than what is already applied.
func (c *Controller) apply(epoch uint64, snap *flowsim.Snapshot) {
	c.mu.Lock()
	if epoch != c.epoch || c.state != StateRunning {
		c.mu.Unlock()
		return
	}
	if snap.CurrentStep < c.lastStep {
		c.mu.Unlock()
		return
	}

	c.snap = snap.Clone()
	c.lastStep = snap.CurrentStep

	if snap.Status == flowsim.StatusCompleted {
		c.state = StateCompleted
		c.stopPollingLocked()
		c.logger.Printf("flowclient: simulation %s completed", c.simID)
	}

	hook := c.onUpdate
	published := c.snap.Clone()
	c.mu.Unlock()

	if hook != nil {
		hook(published)
	}
}

// Stop halts polling and moves the controller to the stopped state. An
// in-flight poll request is not canceled mid-request, but its response can
// no longer be applied. Stopping an already-stopped controller is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStarting && c.state != StateRunning {
		return
	}
	c.state = StateStopped
	c.stopPollingLocked()
}

// Reset returns the controller to idle with the canonical default
// snapshot, cancelling the poll loop if one is active. No update from a
// previously in-flight poll can land after Reset returns.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPollingLocked()
	c.state = StateIdle
	c.simID = ""
	c.lastErr = nil
	c.lastStep = 0
	c.snap = flowsim.DefaultSnapshot()
}

// stopPollingLocked cancels the poll loop and invalidates every
// outstanding poll by bumping the epoch. Idempotent.
func (c *Controller) stopPollingLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.epoch++
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the last applied snapshot.
func (c *Controller) Snapshot() flowsim.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// SimulationID returns the active simulation's ID, or "" when idle.
func (c *Controller) SimulationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.simID
}

// Err returns the start error that moved the controller to the error
// state, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
