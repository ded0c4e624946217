// Package api is the typed HTTP client for the Discovery backend, plus the
// wire types shared with the server. All calls are single-shot: no retries,
// no caching, failures propagate to the caller as typed errors.
package api

// Objective steers how the backend frames its answer.
type Objective string

const (
	ObjectiveInformative Objective = "informative"
	ObjectiveHypothesis  Objective = "hypothesis"
	ObjectiveBenchmark   Objective = "benchmark"
	ObjectiveObjectives  Objective = "objectives"
)

// Objectives lists the recognized objective tags.
var Objectives = []Objective{
	ObjectiveInformative,
	ObjectiveHypothesis,
	ObjectiveBenchmark,
	ObjectiveObjectives,
}

// Valid reports whether the objective is one of the recognized tags.
func (o Objective) Valid() bool {
	for _, known := range Objectives {
		if o == known {
			return true
		}
	}
	return false
}

// QueryRequest is the body of POST /query and POST /flow/start.
type QueryRequest struct {
	Query     string `json:"query"`
	Objective string `json:"objective"`
}

// QueryMetadata accompanies a generated answer.
type QueryMetadata struct {
	Objective      string `json:"objective"`
	ProcessingTime string `json:"processingTime"`
	TokensUsed     int    `json:"tokensUsed"`
	SourcesCount   int    `json:"sourcesCount"`
	SimulationID   string `json:"simulationId"`
}

// QueryResult is the response of POST /query. Response carries the answer
// as markdown; ResponseHTML is the same answer pre-rendered for browsers.
type QueryResult struct {
	Response     string        `json:"response"`
	ResponseHTML string        `json:"responseHtml,omitempty"`
	Metadata     QueryMetadata `json:"metadata"`
}

// StartFlowResult is the response of POST /flow/start.
type StartFlowResult struct {
	Status       string `json:"status"`
	SimulationID string `json:"simulationId"`
	Message      string `json:"message"`
}

// HealthReport is the response of GET /health.
type HealthReport struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components"`
}
