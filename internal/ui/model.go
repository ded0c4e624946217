// Package ui renders a running flow simulation in the terminal: a Bubble
// Tea live dashboard for interactive terminals, and a progress-bar
// reporter for dumb terminals and CI logs. Both render controller state
// only; all lifecycle logic stays in the flowclient package.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowclient"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

// Model is the Bubble Tea model for the flow dashboard. It reads the
// controller's snapshot on every tick; the controller keeps polling the
// backend independently.
type Model struct {
	ctrl         *flowclient.Controller
	snap         flowsim.Snapshot
	state        flowclient.State
	tickInterval time.Duration
	done         bool
}

// NewModel constructs a dashboard for a started controller.
func NewModel(ctrl *flowclient.Controller) Model {
	return Model{
		ctrl:         ctrl,
		snap:         ctrl.Snapshot(),
		state:        ctrl.State(),
		tickInterval: 100 * time.Millisecond,
	}
}

// tickMsg carries a refresh tick.
type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick(m.tickInterval)
}

// Update refreshes from the controller and handles quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c", "esc":
			m.ctrl.Stop()
			m.done = true
			return m, tea.Quit
		}
	case tickMsg:
		m.snap = m.ctrl.Snapshot()
		m.state = m.ctrl.State()
		switch m.state {
		case flowclient.StateCompleted, flowclient.StateStopped, flowclient.StateError:
			m.done = true
			return m, tea.Quit
		}
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	return render(m.snap, m.state, m.done)
}
