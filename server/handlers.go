package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/onnwee/trivia-tender/trivia"
)

// Handlers holds the dependencies for HTTP endpoints.
type Handlers struct {
	engine *trivia.Engine
}

// HandleHealthz responds to liveness probe requests.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleStatus reports the engine's current shape: open questions and players
// with a recorded score.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{
		"active_sessions": h.engine.Sessions().Active(),
		"players":         h.engine.Scores().Players(),
	})
}

// HandleLeaderboard returns the top entries as JSON, highest score first.
// ?n= bounds the list (default 10, max 100).
func (h *Handlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = min(parsed, 100)
	}
	entries := h.engine.Scores().Top(n)
	if entries == nil {
		entries = []trivia.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}
