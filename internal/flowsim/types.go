// Package flowsim owns the simulated RAG pipeline runs that back the flow
// visualization: the snapshot model polled by clients and the engine that
// advances runs through the scripted pipeline stages.
package flowsim

// Status is the lifecycle stage of a simulation run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// StageState is the progress marker for a single node or connection.
type StageState string

const (
	StateWaiting   StageState = "waiting"
	StateActive    StageState = "active"
	StateCompleted StageState = "completed"
)

// TotalSteps is the number of scripted steps in a full run.
const TotalSteps = 16

// Stages lists the pipeline nodes in processing order.
var Stages = []string{
	"query",
	"classification",
	"retrieval",
	"reranking",
	"context",
	"prompt",
	"generation",
	"response",
}

// Connections lists the edges between adjacent stages, in order.
var Connections = []string{
	"query_classification",
	"classification_retrieval",
	"retrieval_reranking",
	"reranking_context",
	"context_prompt",
	"prompt_generation",
	"generation_response",
}

// Metrics are the cumulative counters for a run. All fields are
// monotonically non-decreasing over the lifetime of a simulation.
type Metrics struct {
	ProcessingTime     float64 `json:"processingTime"`
	DocumentsRetrieved int     `json:"documentsRetrieved"`
	ChunksProcessed    int     `json:"chunksProcessed"`
	TokensUsed         int     `json:"tokensUsed"`
}

// NodeDetails describes the node a run is currently working on.
type NodeDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Snapshot is the full observable state of a simulation run at one point
// in time. It is what GET /flow/{id} returns and what clients overwrite
// their local state with on every poll.
type Snapshot struct {
	Status             Status                `json:"status"`
	CurrentStep        int                   `json:"current_step"`
	Nodes              map[string]StageState `json:"nodes"`
	Connections        map[string]StageState `json:"connections"`
	Metrics            Metrics               `json:"metrics"`
	CurrentNodeDetails *NodeDetails          `json:"current_node_details"`
}

// DefaultSnapshot returns the canonical idle snapshot: every node and
// connection waiting, step 0, metrics zeroed, no active node details.
func DefaultSnapshot() Snapshot {
	nodes := make(map[string]StageState, len(Stages))
	for _, s := range Stages {
		nodes[s] = StateWaiting
	}
	conns := make(map[string]StageState, len(Connections))
	for _, c := range Connections {
		conns[c] = StateWaiting
	}
	return Snapshot{
		Status:      StatusIdle,
		CurrentStep: 0,
		Nodes:       nodes,
		Connections: conns,
	}
}

// Clone returns a deep copy of the snapshot so callers can hold it without
// racing with subsequent updates.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Nodes = make(map[string]StageState, len(s.Nodes))
	for k, v := range s.Nodes {
		out.Nodes[k] = v
	}
	out.Connections = make(map[string]StageState, len(s.Connections))
	for k, v := range s.Connections {
		out.Connections[k] = v
	}
	if s.CurrentNodeDetails != nil {
		d := *s.CurrentNodeDetails
		out.CurrentNodeDetails = &d
	}
	return out
}
