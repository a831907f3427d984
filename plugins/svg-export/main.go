// Package main is an exporter plugin that writes a glyph as SVG.
//
// Build it next to its manifest:
//
//	go build -o plugins/svg-export/svg-export ./plugins/svg-export
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Request is the input from the plugin executor.
type Request struct {
	Action    string `json:"action"`
	Format    string `json:"format"`
	Glyph     Glyph  `json:"glyph"`
	StageSize int    `json:"stage_size"`
}

// Glyph is the part of a glyph snapshot this plugin reads.
type Glyph struct {
	Letter string `json:"letter"`
	Dots   []Dot  `json:"dots"`
}

// Dot is one brush circle; R is its diameter.
type Dot struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	R           float64 `json:"r"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"sw"`
}

// Response is the output to the plugin executor.
type Response struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != "export" || req.Format != "svg" {
		writeResponse(Response{Error: fmt.Sprintf("unsupported request: %s %s", req.Action, req.Format)})
		return
	}
	if len(req.Glyph.Dots) == 0 {
		writeResponse(Response{Error: fmt.Sprintf("letter %s has no dots", req.Glyph.Letter)})
		return
	}

	writeResponse(Response{
		Success:     true,
		ContentType: "image/svg+xml",
		Data:        []byte(render(req.Glyph, req.StageSize)),
	})
}

func render(g Glyph, size int) string {
	if size <= 0 {
		size = 860
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	fmt.Fprintf(&b, "\n<title>%s</title>\n", g.Letter)
	for _, d := range g.Dots {
		fill, stroke := paint(d.Fill), paint(d.Stroke)
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s"`, d.X, d.Y, d.R/2, fill, stroke)
		if d.Stroke != "" {
			fmt.Fprintf(&b, ` stroke-width="%g"`, d.StrokeWidth)
		}
		b.WriteString("/>\n")
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func paint(color string) string {
	if color == "" {
		return "none"
	}
	return color
}

func writeResponse(resp Response) {
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode response: %v\n", err)
		os.Exit(1)
	}
}
