package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

// Client talks to the Discovery backend over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// NewClientWithHTTP creates a client using the given http.Client, which
// tests use to inject transports.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	c := NewClient(baseURL)
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// SendQuery submits a query and waits for the generated answer.
func (c *Client) SendQuery(ctx context.Context, query string, objective Objective) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &EmptyInputError{Field: "query"}
	}
	var result QueryResult
	req := QueryRequest{Query: query, Objective: string(objective)}
	if err := c.do(ctx, http.MethodPost, "/query", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartFlow asks the backend to begin a new flow simulation and returns
// its simulation ID.
func (c *Client) StartFlow(ctx context.Context, query string, objective Objective) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &EmptyInputError{Field: "query"}
	}
	var result StartFlowResult
	req := QueryRequest{Query: query, Objective: string(objective)}
	if err := c.do(ctx, http.MethodPost, "/flow/start", req, &result); err != nil {
		return "", err
	}
	return result.SimulationID, nil
}

// FlowStatus fetches the current snapshot of a running simulation.
func (c *Client) FlowStatus(ctx context.Context, simulationID string) (*flowsim.Snapshot, error) {
	if strings.TrimSpace(simulationID) == "" {
		return nil, &EmptyInputError{Field: "simulationId"}
	}
	var snap flowsim.Snapshot
	if err := c.do(ctx, http.MethodGet, "/flow/"+simulationID, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	var report HealthReport
	if err := c.do(ctx, http.MethodGet, "/health", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a short body excerpt for the error message.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPError{Status: resp.StatusCode, URL: url, Body: strings.TrimSpace(string(excerpt))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", url, err)
		}
	}
	return nil
}
