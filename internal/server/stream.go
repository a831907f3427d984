package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"
	"go.uber.org/zap"
)

// StageSource composes the current stage image: camera, dots and
// animation. The caller closes the returned Mat.
type StageSource interface {
	ComposeStage() (gocv.Mat, error)
}

// StreamHandler serves the stage as MJPEG.
type StreamHandler struct {
	stage    StageSource
	interval time.Duration
	logger   *zap.Logger
}

// NewStreamHandler creates a StreamHandler sending a frame every interval.
func NewStreamHandler(stage StageSource, interval time.Duration, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{stage: stage, interval: interval, logger: logger}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.writeFrame(w); err != nil {
			h.logger.Debug("stream frame skipped", zap.Error(err))
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *StreamHandler) writeFrame(w http.ResponseWriter) error {
	img, err := h.stage.ComposeStage()
	if err != nil {
		return err
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	img.Close()
	if err != nil {
		return err
	}
	defer buf.Close()

	fmt.Fprintf(w, "--frame\r\n")
	fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
	if _, err := w.Write(buf.GetBytes()); err != nil {
		return err
	}
	fmt.Fprintf(w, "\r\n")

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
