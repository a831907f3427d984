package api

import (
	"encoding/json"
	"net/http"
)

// StatusHandler reports and toggles drawing.
//
//	GET /api/status   selected letter, drawing and enabled flags
//	PUT /api/status   {"enabled": bool}
type StatusHandler struct {
	studio Studio
}

// NewStatusHandler creates a StatusHandler over studio.
func NewStatusHandler(studio Studio) *StatusHandler {
	return &StatusHandler{studio: studio}
}

type statusResponse struct {
	Selected string `json:"selected"`
	Drawing  bool   `json:"drawing"`
	Enabled  bool   `json:"enabled"`
	DotCount int    `json:"dot_count"`
}

type statusRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "Body must be {\"enabled\": true|false}")
			return
		}
		h.studio.SetEnabled(*req.Enabled)
	default:
		methodNotAllowed(w)
		return
	}

	current := h.studio.Current()
	writeJSON(w, http.StatusOK, statusResponse{
		Selected: current.Letter,
		Drawing:  h.studio.Drawing(),
		Enabled:  h.studio.Enabled(),
		DotCount: len(current.Dots),
	})
}
