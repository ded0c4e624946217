package flowclient

import (
	"context"
	"log"
	"time"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
)

// QueryAPI is the slice of the backend client the query controller needs.
// *api.Client satisfies it.
type QueryAPI interface {
	SendQuery(ctx context.Context, query string, objective api.Objective) (*api.QueryResult, error)
	StartFlow(ctx context.Context, query string, objective api.Objective) (string, error)
}

// startFlowTimeout bounds the detached simulation start so an unreachable
// backend cannot leak the goroutine forever.
const startFlowTimeout = 10 * time.Second

// QueryOptions tunes a QueryController.
type QueryOptions struct {
	// Logger is the side channel for fire-and-forget failures.
	// Defaults to log.Default().
	Logger *log.Logger
	// OnSimulation, when set, receives the simulation ID of the
	// best-effort flow start that follows a successful query.
	OnSimulation func(simulationID string)
	// DisableSimulation turns off the best-effort flow start entirely.
	DisableSimulation bool
}

// QueryController submits queries and, on success, kicks off a flow
// simulation as a detached side effect. The answer path never waits on,
// and never fails because of, the visualization path.
type QueryController struct {
	apiClient    QueryAPI
	logger       *log.Logger
	onSimulation func(string)
	noSimulation bool
}

// NewQueryController creates a query controller.
func NewQueryController(apiClient QueryAPI, opts QueryOptions) *QueryController {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &QueryController{
		apiClient:    apiClient,
		logger:       logger,
		onSimulation: opts.OnSimulation,
		noSimulation: opts.DisableSimulation,
	}
}

// Submit validates and sends the query, returning the generated answer.
// After a successful response it starts a flow simulation in the
// background; a failure there is logged and never surfaces to the caller.
func (q *QueryController) Submit(ctx context.Context, query string, objective api.Objective) (*api.QueryResult, error) {
	result, err := q.apiClient.SendQuery(ctx, query, objective)
	if err != nil {
		return nil, err
	}

	if !q.noSimulation {
		go q.startSimulation(query, objective)
	}
	return result, nil
}

// startSimulation is the fire-and-forget visualization kick-off.
func (q *QueryController) startSimulation(query string, objective api.Objective) {
	ctx, cancel := context.WithTimeout(context.Background(), startFlowTimeout)
	defer cancel()

	simID, err := q.apiClient.StartFlow(ctx, query, objective)
	if err != nil {
		q.logger.Printf("flowclient: background simulation start failed: %v", err)
		return
	}
	if q.onSimulation != nil {
		q.onSimulation(simID)
	}
}
