// Package api provides the HTTP JSON handlers for letters and exports.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/ayusman/bubbletype/internal/plugin"
	"github.com/ayusman/bubbletype/internal/render"
)

// Studio is the drawing state the API reads and drives.
type Studio interface {
	List() []glyph.Summary
	Current() glyph.Glyph
	Saved(letter string) (glyph.Glyph, error)
	Select(letter string) error
	Redraw() error
	Save() (glyph.Glyph, error)
	SetStyle(style gesture.Style) error
	SetMode(mode gesture.Mode) error
	Drawing() bool
	Enabled() bool
	SetEnabled(enabled bool)
}

// Exporter encodes a letter for download.
type Exporter interface {
	Export(ctx context.Context, letter, format string, backdrop render.Backdrop) ([]byte, string, error)
	Formats() []string
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeErr maps domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, glyph.ErrInvalidLetter),
		errors.Is(err, glyph.ErrInvalidMode),
		errors.Is(err, glyph.ErrInvalidStyle):
		return http.StatusBadRequest
	case errors.Is(err, glyph.ErrNotSaved),
		errors.Is(err, render.ErrNothingToExport),
		errors.Is(err, plugin.ErrPluginNotFound):
		return http.StatusNotFound
	case errors.Is(err, glyph.ErrEmptyStroke):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
