package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleSplitStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stats":       s.orchestrator.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"documents":   s.orchestrator.Store().Len(),
	})
}
