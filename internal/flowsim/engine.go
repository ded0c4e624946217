package flowsim

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a simulation ID is unknown or already evicted.
var ErrNotFound = errors.New("simulation not found")

// DefaultRetention is how long a finished run stays queryable before it is
// evicted from the registry.
const DefaultRetention = 10 * time.Minute

// Options tunes an Engine.
type Options struct {
	// Speed scales every scripted delay. 1.0 runs the full ~13s script;
	// larger values compress it (a delay is divided by Speed). Zero means 1.0.
	Speed float64
	// Retention overrides how long finished runs stay queryable.
	Retention time.Duration
	// Logger receives run lifecycle messages. Defaults to log.Default().
	Logger *log.Logger
}

// Engine runs flow simulations in-process. Runs are kept in memory only,
// matching the demo backend's behavior; there is no persistence.
type Engine struct {
	speed     float64
	retention time.Duration
	logger    *log.Logger

	mu   sync.Mutex
	runs map[string]*Snapshot
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	speed := opts.Speed
	if speed <= 0 {
		speed = 1.0
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		speed:     speed,
		retention: retention,
		logger:    logger,
		runs:      make(map[string]*Snapshot),
	}
}

// Start begins a user-initiated simulation and returns its ID.
func (e *Engine) Start(query, objective string) string {
	return e.start("flow_", query, objective)
}

// StartForQuery begins the background simulation that accompanies a /query
// request. It differs from Start only in the ID prefix.
func (e *Engine) StartForQuery(query, objective string) string {
	return e.start("query_", query, objective)
}

func (e *Engine) start(prefix, query, objective string) string {
	id := prefix + uuid.NewString()

	snap := DefaultSnapshot()
	snap.Status = StatusRunning

	e.mu.Lock()
	e.runs[id] = &snap
	e.mu.Unlock()

	e.logger.Printf("flowsim: run %s started (objective=%s)", id, objective)
	go e.advance(id, query, objective)
	return id
}

// advance walks the run through the scripted steps, then evicts it after
// the retention window.
func (e *Engine) advance(id, query, objective string) {
	for _, st := range script(query, objective) {
		time.Sleep(time.Duration(float64(st.delay) / e.speed))

		e.mu.Lock()
		snap, ok := e.runs[id]
		if !ok {
			e.mu.Unlock()
			return
		}
		snap.apply(st)
		e.mu.Unlock()
	}
	e.logger.Printf("flowsim: run %s completed", id)

	time.AfterFunc(e.retention, func() {
		e.mu.Lock()
		delete(e.runs, id)
		e.mu.Unlock()
	})
}

// Snapshot returns a copy of the run's current state, or ErrNotFound.
func (e *Engine) Snapshot(id string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.runs[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap.Clone(), nil
}

// Active counts runs that are still progressing through the script.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, snap := range e.runs {
		if snap.Status == StatusRunning {
			n++
		}
	}
	return n
}
