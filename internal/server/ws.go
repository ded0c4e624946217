package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamInterval is the push cadence for websocket snapshot updates. It
// matches the dashboard's polling interval.
const streamInterval = time.Second

// handleFlowStream pushes simulation snapshots over a websocket until the
// run completes or the client goes away. It is the push-based alternative
// to polling GET /flow/{id}.
func (s *Server) handleFlowStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulationID")
	if _, err := s.engine.Snapshot(id); err != nil {
		http.Error(w, "simulation not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Consume control frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		snap, err := s.engine.Snapshot(id)
		if err != nil {
			// Evicted mid-stream; tell the client and stop.
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation evicted"),
				time.Now().Add(time.Second))
			return
		}

		if err := conn.WriteJSON(snap); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket write: %v", err)
			}
			return
		}

		if snap.Status == flowsim.StatusCompleted {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "completed"),
				time.Now().Add(time.Second))
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
