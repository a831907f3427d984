package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
)

// LettersHandler handles the letter book.
//
//	GET  /api/letters                  all letters
//	GET  /api/letters/current          live stroke of the selected letter
//	POST /api/letters/current/redraw   discard live and saved stroke
//	POST /api/letters/current/save     save the live stroke
//	PUT  /api/letters/current/style    set fill and stroke
//	PUT  /api/letters/current/mode     set the animation mode
//	GET  /api/letters/{L}              saved stroke of a letter
//	POST /api/letters/{L}/select       make a letter the drawing target
type LettersHandler struct {
	studio Studio
}

// NewLettersHandler creates a LettersHandler over studio.
func NewLettersHandler(studio Studio) *LettersHandler {
	return &LettersHandler{studio: studio}
}

type listLettersResponse struct {
	Selected string          `json:"selected"`
	Letters  []glyph.Summary `json:"letters"`
}

type modeRequest struct {
	Mode gesture.Mode `json:"mode"`
}

// ServeHTTP routes letter requests.
func (h *LettersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/letters")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.list(w)
		return
	}

	name, action, _ := strings.Cut(path, "/")
	if name == "current" {
		h.current(w, r, action)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.saved(w, name)
	case action == "select" && r.Method == http.MethodPost:
		h.selectLetter(w, name)
	case action == "" || action == "select":
		methodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *LettersHandler) current(w http.ResponseWriter, r *http.Request, action string) {
	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, h.studio.Current())
	case action == "redraw" && r.Method == http.MethodPost:
		if err := h.studio.Redraw(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.studio.Current())
	case action == "save" && r.Method == http.MethodPost:
		g, err := h.studio.Save()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	case action == "style" && r.Method == http.MethodPut:
		var style gesture.Style
		if err := json.NewDecoder(r.Body).Decode(&style); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := h.studio.SetStyle(style); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.studio.Current())
	case action == "mode" && r.Method == http.MethodPut:
		var req modeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := h.studio.SetMode(req.Mode); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.studio.Current())
	case action == "" || action == "redraw" || action == "save" || action == "style" || action == "mode":
		methodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *LettersHandler) list(w http.ResponseWriter) {
	letters := h.studio.List()
	resp := listLettersResponse{Letters: letters}
	for _, l := range letters {
		if l.Selected {
			resp.Selected = l.Letter
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LettersHandler) saved(w http.ResponseWriter, letter string) {
	g, err := h.studio.Saved(letter)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *LettersHandler) selectLetter(w http.ResponseWriter, letter string) {
	if err := h.studio.Select(letter); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.studio.Current())
}
