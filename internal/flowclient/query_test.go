package flowclient

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
)

// fakeQueryAPI scripts SendQuery/StartFlow for the query controller.
type fakeQueryAPI struct {
	mu         sync.Mutex
	queryErr   error
	startErr   error
	startCalls int
}

func (f *fakeQueryAPI) SendQuery(_ context.Context, query string, objective api.Objective) (*api.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &api.EmptyInputError{Field: "query"}
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &api.QueryResult{
		Response: "## Summary\nAn answer.",
		Metadata: api.QueryMetadata{Objective: string(objective), TokensUsed: 1250},
	}, nil
}

func (f *fakeQueryAPI) StartFlow(_ context.Context, _ string, _ api.Objective) (string, error) {
	f.mu.Lock()
	f.startCalls++
	f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	return "flow_side_effect", nil
}

func (f *fakeQueryAPI) flowStarts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

func TestSubmitTriggersSimulation(t *testing.T) {
	f := &fakeQueryAPI{}
	simIDs := make(chan string, 1)
	q := NewQueryController(f, QueryOptions{
		Logger:       quietLogger(),
		OnSimulation: func(id string) { simIDs <- id },
	})

	result, err := q.Submit(context.Background(), "which profiles exist?", api.ObjectiveInformative)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Response == "" {
		t.Error("expected non-empty response")
	}
	if result.Metadata.Objective != string(api.ObjectiveInformative) {
		t.Errorf("objective echo: got %q", result.Metadata.Objective)
	}

	select {
	case id := <-simIDs:
		if id != "flow_side_effect" {
			t.Errorf("simulation ID %q", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("background simulation never started")
	}
}

// A failing simulation start must be logged but never surface to the
// caller or alter the returned answer.
func TestSubmitSimulationFailureIsSilent(t *testing.T) {
	f := &fakeQueryAPI{startErr: errors.New("flow service down")}

	var buf bytes.Buffer
	var mu sync.Mutex
	logger := log.New(&lockedWriter{w: &buf, mu: &mu}, "", 0)

	q := NewQueryController(f, QueryOptions{Logger: logger})

	result, err := q.Submit(context.Background(), "q", api.ObjectiveHypothesis)
	if err != nil {
		t.Fatalf("Submit must not fail when the side effect fails: %v", err)
	}
	if result.Response == "" {
		t.Error("expected the answer despite side-effect failure")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		logged := buf.String()
		mu.Unlock()
		if strings.Contains(logged, "background simulation start failed") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("side-effect failure was never logged")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSubmitQueryFailureSkipsSimulation(t *testing.T) {
	f := &fakeQueryAPI{queryErr: &api.HTTPError{Status: 500, URL: "http://x/query"}}
	q := NewQueryController(f, QueryOptions{Logger: quietLogger()})

	_, err := q.Submit(context.Background(), "q", api.ObjectiveInformative)
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if f.flowStarts() != 0 {
		t.Errorf("no simulation may start after a failed query, saw %d", f.flowStarts())
	}
}

func TestSubmitEmptyQuery(t *testing.T) {
	f := &fakeQueryAPI{}
	q := NewQueryController(f, QueryOptions{Logger: quietLogger()})

	_, err := q.Submit(context.Background(), "   ", api.ObjectiveInformative)
	var emptyErr *api.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
	if f.flowStarts() != 0 {
		t.Errorf("validation failure must not trigger the side effect")
	}
}

func TestSubmitDisabledSimulation(t *testing.T) {
	f := &fakeQueryAPI{}
	q := NewQueryController(f, QueryOptions{Logger: quietLogger(), DisableSimulation: true})

	if _, err := q.Submit(context.Background(), "q", api.ObjectiveInformative); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if f.flowStarts() != 0 {
		t.Errorf("simulation started despite being disabled")
	}
}

// lockedWriter serializes writes so the log buffer can be read while the
// background goroutine may still be writing.
type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
