package flowsim

import (
	"fmt"
	"time"
)

// step is one scripted advance of a simulation run. Node and connection
// entries are merged into the snapshot; metrics carry the cumulative
// values as of that step; details, when set, replace the current card.
type step struct {
	delay       time.Duration
	nodes       map[string]StageState
	connections map[string]StageState
	metrics     Metrics
	details     *NodeDetails
	status      Status
}

// script builds the 16-step progression for a run: each node activates,
// completes, and hands off through its connection to the next node, with
// metric milestones at retrieval and generation.
func script(query, objective string) []step {
	return []step{
		{
			delay:   1 * time.Second,
			nodes:   map[string]StageState{"query": StateActive},
			metrics: Metrics{ProcessingTime: 0.2},
			details: &NodeDetails{
				Title:       "User Query",
				Description: fmt.Sprintf("Analyzing the query: %q", query),
				Type:        "input",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"query": StateCompleted},
			connections: map[string]StageState{"query_classification": StateActive},
			metrics:     Metrics{ProcessingTime: 0.5},
		},
		{
			delay:       1 * time.Second,
			connections: map[string]StageState{"query_classification": StateCompleted},
			nodes:       map[string]StageState{"classification": StateActive},
			metrics:     Metrics{ProcessingTime: 0.8},
			details: &NodeDetails{
				Title:       "Objective Classification",
				Description: fmt.Sprintf("Classifying the query as: %q", objective),
				Type:        "process",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"classification": StateCompleted},
			connections: map[string]StageState{"classification_retrieval": StateActive},
			metrics:     Metrics{ProcessingTime: 1.0},
		},
		{
			delay:       1500 * time.Millisecond,
			connections: map[string]StageState{"classification_retrieval": StateCompleted},
			nodes:       map[string]StageState{"retrieval": StateActive},
			metrics:     Metrics{ProcessingTime: 1.5, DocumentsRetrieved: 3, ChunksProcessed: 12},
			details: &NodeDetails{
				Title:       "Document Retrieval",
				Description: "Fetching relevant chunks from the vector store by semantic similarity",
				Type:        "storage",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"retrieval": StateCompleted},
			connections: map[string]StageState{"retrieval_reranking": StateActive},
			metrics:     Metrics{ProcessingTime: 1.8, DocumentsRetrieved: 3, ChunksProcessed: 12},
		},
		{
			delay:       1 * time.Second,
			connections: map[string]StageState{"retrieval_reranking": StateCompleted},
			nodes:       map[string]StageState{"reranking": StateActive},
			metrics:     Metrics{ProcessingTime: 2.3, DocumentsRetrieved: 3, ChunksProcessed: 12},
			details: &NodeDetails{
				Title:       "Result Reranking",
				Description: "Reordering the initial 20 chunks to keep the 7 most relevant",
				Type:        "process",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"reranking": StateCompleted},
			connections: map[string]StageState{"reranking_context": StateActive},
			metrics:     Metrics{ProcessingTime: 2.5, DocumentsRetrieved: 3, ChunksProcessed: 12},
		},
		{
			delay:       1 * time.Second,
			connections: map[string]StageState{"reranking_context": StateCompleted},
			nodes:       map[string]StageState{"context": StateActive},
			metrics:     Metrics{ProcessingTime: 3.0, DocumentsRetrieved: 3, ChunksProcessed: 12},
			details: &NodeDetails{
				Title:       "Context Selection",
				Description: "Compressing and prioritizing information for the final context",
				Type:        "process",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"context": StateCompleted},
			connections: map[string]StageState{"context_prompt": StateActive},
			metrics:     Metrics{ProcessingTime: 3.2, DocumentsRetrieved: 3, ChunksProcessed: 12},
		},
		{
			delay:       1 * time.Second,
			connections: map[string]StageState{"context_prompt": StateCompleted},
			nodes:       map[string]StageState{"prompt": StateActive},
			metrics:     Metrics{ProcessingTime: 3.5, DocumentsRetrieved: 3, ChunksProcessed: 12},
			details: &NodeDetails{
				Title:       "Prompt Construction",
				Description: fmt.Sprintf("Building the specialized %s prompt with the selected context", objective),
				Type:        "process",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"prompt": StateCompleted},
			connections: map[string]StageState{"prompt_generation": StateActive},
			metrics:     Metrics{ProcessingTime: 3.7, DocumentsRetrieved: 3, ChunksProcessed: 12},
		},
		{
			delay:       2 * time.Second,
			connections: map[string]StageState{"prompt_generation": StateCompleted},
			nodes:       map[string]StageState{"generation": StateActive},
			metrics:     Metrics{ProcessingTime: 4.5, DocumentsRetrieved: 3, ChunksProcessed: 12, TokensUsed: 1250},
			details: &NodeDetails{
				Title:       "Response Generation",
				Description: "Generating a structured answer from the prompt and context",
				Type:        "api",
			},
		},
		{
			delay:       500 * time.Millisecond,
			nodes:       map[string]StageState{"generation": StateCompleted},
			connections: map[string]StageState{"generation_response": StateActive},
			metrics:     Metrics{ProcessingTime: 4.7, DocumentsRetrieved: 3, ChunksProcessed: 12, TokensUsed: 1250},
		},
		{
			delay:       1 * time.Second,
			connections: map[string]StageState{"generation_response": StateCompleted},
			nodes:       map[string]StageState{"response": StateActive},
			metrics:     Metrics{ProcessingTime: 5.0, DocumentsRetrieved: 3, ChunksProcessed: 12, TokensUsed: 1250},
			details: &NodeDetails{
				Title:       "Response Formatting",
				Description: "Processing and formatting the final answer for the user",
				Type:        "output",
			},
		},
		{
			delay:   1 * time.Second,
			nodes:   map[string]StageState{"response": StateCompleted},
			status:  StatusCompleted,
			metrics: Metrics{ProcessingTime: 5.0, DocumentsRetrieved: 3, ChunksProcessed: 12, TokensUsed: 1250},
			details: &NodeDetails{
				Title:       "Pipeline Complete",
				Description: "All steps finished successfully",
				Type:        "output",
			},
		},
	}
}

// apply merges one scripted step into the snapshot and bumps current_step.
func (s *Snapshot) apply(st step) {
	s.CurrentStep++
	for k, v := range st.nodes {
		s.Nodes[k] = v
	}
	for k, v := range st.connections {
		s.Connections[k] = v
	}
	s.Metrics = st.metrics
	if st.details != nil {
		d := *st.details
		s.CurrentNodeDetails = &d
	}
	if st.status != "" {
		s.Status = st.status
	}
}
