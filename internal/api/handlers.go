package api

import (
	"encoding/json"
	"net/http"
)

// StateProvider is the read-only view the debug surface needs from a
// running simulation. netio.Match satisfies it directly.
type StateProvider interface {
	DebugState() interface{}
}

type routerHandlers struct {
	state StateProvider
}

func (h *routerHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *routerHandlers) handleDebugState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.state.DebugState())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
