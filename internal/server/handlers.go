package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/generator"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "Discovery RAG Agent V2 API",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthReport{
		Status:  "healthy",
		Version: Version,
		Components: map[string]string{
			"api":       "online",
			"engine":    "online",
			"generator": s.provider.Name(),
		},
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	objective := api.Objective(req.Objective)
	if objective == "" {
		objective = api.ObjectiveInformative
	}

	// Kick off the visualization run that accompanies this query.
	simID := s.engine.StartForQuery(req.Query, string(objective))

	started := time.Now()
	answer, err := s.provider.Generate(r.Context(), req.Query, objective)
	if err != nil {
		log.Printf("server: generating answer: %v", err)
		http.Error(w, "failed to generate answer", http.StatusInternalServerError)
		return
	}

	htmlOut, err := generator.RenderHTML(answer.Markdown)
	if err != nil {
		// The markdown answer is still usable without its HTML rendering.
		log.Printf("server: rendering answer: %v", err)
		htmlOut = ""
	}

	writeJSON(w, http.StatusOK, api.QueryResult{
		Response:     answer.Markdown,
		ResponseHTML: htmlOut,
		Metadata: api.QueryMetadata{
			Objective:      string(objective),
			ProcessingTime: fmt.Sprintf("%.1fs", time.Since(started).Seconds()),
			TokensUsed:     answer.TokensUsed,
			SourcesCount:   3,
			SimulationID:   simID,
		},
	})
}

func (s *Server) handleFlowStart(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	objective := req.Objective
	if objective == "" {
		objective = string(api.ObjectiveInformative)
	}

	simID := s.engine.Start(req.Query, objective)
	writeJSON(w, http.StatusOK, api.StartFlowResult{
		Status:       "started",
		SimulationID: simID,
		Message:      "simulation started",
	})
}

func (s *Server) handleFlowStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulationID")
	snap, err := s.engine.Snapshot(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("simulation %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
