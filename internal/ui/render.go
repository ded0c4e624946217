package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowclient"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// stageLabels are the display names for the pipeline rail.
var stageLabels = map[string]string{
	"query":          "Query",
	"classification": "Classify",
	"retrieval":      "Retrieve",
	"reranking":      "Rerank",
	"context":        "Context",
	"prompt":         "Prompt",
	"generation":     "Generate",
	"response":       "Respond",
}

// render lays out the full dashboard for one snapshot.
func render(snap flowsim.Snapshot, state flowclient.State, done bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Discovery RAG pipeline"))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  [%s]", state)))
	b.WriteString("\n\n")

	b.WriteString(renderRail(snap))
	b.WriteString("\n\n")

	pct := 0
	if snap.CurrentStep > 0 {
		pct = snap.CurrentStep * 100 / flowsim.TotalSteps
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("step %d/%d (%d%%)", snap.CurrentStep, flowsim.TotalSteps, pct)))
	b.WriteString("\n")
	b.WriteString(renderMetrics(snap.Metrics))
	b.WriteString("\n")

	if snap.CurrentNodeDetails != nil {
		d := snap.CurrentNodeDetails
		card := fmt.Sprintf("%s\n%s", activeStyle.Render(d.Title), d.Description)
		b.WriteString(cardStyle.Render(card))
		b.WriteString("\n")
	}

	if !done {
		b.WriteString(labelStyle.Render("press q to stop"))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRail draws the node markers joined by their connection markers.
func renderRail(snap flowsim.Snapshot) string {
	var parts []string
	for i, stage := range flowsim.Stages {
		parts = append(parts, renderNode(stage, snap.Nodes[stage]))
		if i < len(flowsim.Connections) {
			parts = append(parts, renderConnection(snap.Connections[flowsim.Connections[i]]))
		}
	}
	return strings.Join(parts, "")
}

func renderNode(stage string, state flowsim.StageState) string {
	label := stageLabels[stage]
	switch state {
	case flowsim.StateActive:
		return activeStyle.Render("◉ " + label)
	case flowsim.StateCompleted:
		return doneStyle.Render("● " + label)
	default:
		return waitingStyle.Render("○ " + label)
	}
}

func renderConnection(state flowsim.StageState) string {
	switch state {
	case flowsim.StateActive:
		return activeStyle.Render(" ─▶ ")
	case flowsim.StateCompleted:
		return doneStyle.Render(" ─▶ ")
	default:
		return waitingStyle.Render(" ╌╌ ")
	}
}

func renderMetrics(m flowsim.Metrics) string {
	return labelStyle.Render(fmt.Sprintf(
		"time %.1fs · docs %d · chunks %d · tokens %d",
		m.ProcessingTime, m.DocumentsRetrieved, m.ChunksProcessed, m.TokensUsed,
	))
}
