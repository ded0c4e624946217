package ui

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

// Reporter provides step-by-step feedback for a simulation in
// non-interactive environments.
type Reporter interface {
	Start()
	Update(snap flowsim.Snapshot)
	Finish()
}

// NewReporter returns a TerminalReporter, or a CIReporter when running
// under CI.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar tracking current_step.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start() {
	r.bar = progressbar.NewOptions(flowsim.TotalSteps,
		progressbar.OptionSetDescription("Simulating pipeline"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(snap flowsim.Snapshot) {
	if r.bar == nil {
		return
	}
	if snap.CurrentNodeDetails != nil {
		r.bar.Describe(snap.CurrentNodeDetails.Title)
	}
	_ = r.bar.Set(snap.CurrentStep)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	lastStep int
}

func (r *CIReporter) Start() {
	fmt.Fprintf(os.Stderr, "Simulation started (%d steps)\n", flowsim.TotalSteps)
}

func (r *CIReporter) Update(snap flowsim.Snapshot) {
	if snap.CurrentStep == r.lastStep {
		return
	}
	r.lastStep = snap.CurrentStep
	title := ""
	if snap.CurrentNodeDetails != nil {
		title = snap.CurrentNodeDetails.Title
	}
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", snap.CurrentStep, flowsim.TotalSteps, title)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(os.Stderr, "Simulation complete")
}
