// Package plugin discovers and runs exporter plugins: external programs
// that turn a glyph into a file format bubbletype does not encode itself.
//
// A plugin lives in its own directory with a plugin.json manifest. It is
// started once per request, reads one JSON Request on stdin and writes one
// JSON Response on stdout.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/bubbletype/internal/glyph"
)

// ActionExport is the only action plugins are asked to perform.
const ActionExport = "export"

// Manifest describes a plugin's metadata and the formats it can export.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Formats      []string        `json:"formats"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the plugin exports format.
func (m Manifest) Supports(format string) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Request is sent to a plugin on stdin.
type Request struct {
	Action    string          `json:"action"`
	Format    string          `json:"format"`
	Glyph     glyph.Glyph     `json:"glyph"`
	StageSize int             `json:"stage_size"`
	Options   json.RawMessage `json:"options,omitempty"`
}

// Response is read from a plugin's stdout. Data is base64 in JSON.
type Response struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
