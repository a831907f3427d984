package api

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/ayusman/bubbletype/internal/render"
)

// ExportHandler serves letter exports.
//
//	GET /api/export                      available formats
//	GET /api/export/{L}.{format}         download, ?backdrop=type|camera
type ExportHandler struct {
	exporter Exporter
}

// NewExportHandler creates an ExportHandler over exporter.
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

type formatsResponse struct {
	Formats []string `json:"formats"`
}

// ServeHTTP handles GET requests.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/export"), "/")
	if name == "" {
		writeJSON(w, http.StatusOK, formatsResponse{Formats: h.exporter.Formats()})
		return
	}

	ext := path.Ext(name)
	letter := strings.TrimSuffix(name, ext)
	format := strings.ToLower(strings.TrimPrefix(ext, "."))
	if format == "" {
		writeError(w, http.StatusBadRequest, "Export path must be {letter}.{format}")
		return
	}

	backdrop := render.Backdrop(r.URL.Query().Get("backdrop"))
	switch backdrop {
	case "":
		backdrop = render.BackdropType
	case render.BackdropType, render.BackdropCamera:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown backdrop %q", backdrop))
		return
	}

	data, contentType, err := h.exporter.Export(r.Context(), letter, format, backdrop)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, strings.ToUpper(letter), format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
