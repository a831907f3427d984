package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ayusman/bubbletype/internal/glyph"
	"go.uber.org/zap"
)

// ErrExportFailed is returned when a plugin ran but reported failure.
var ErrExportFailed = errors.New("plugin export failed")

// Executor runs plugins with a timeout.
type Executor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecutor creates an Executor that kills plugins running longer than
// timeout. A nil logger disables logging.
func NewExecutor(timeout time.Duration, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		timeout: timeout,
		logger:  logger,
	}
}

// Execute runs a plugin with the given request and returns its response.
// The request is written to the plugin's stdin as JSON and stdout is
// parsed as a Response.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.WaitDelay = time.Second

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	e.logger.Debug("plugin finished",
		zap.String("plugin", plugin.Manifest.Name),
		zap.String("format", req.Format),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("plugin execution timeout after %s", e.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}

// Export asks plugin to encode g in format and returns the encoded bytes
// and their content type.
func (e *Executor) Export(ctx context.Context, plugin *Plugin, format string, g glyph.Glyph, stageSize int) ([]byte, string, error) {
	resp, err := e.Execute(ctx, plugin, &Request{
		Action:    ActionExport,
		Format:    format,
		Glyph:     g,
		StageSize: stageSize,
	})
	if err != nil {
		return nil, "", err
	}
	if !resp.Success {
		return nil, "", fmt.Errorf("%s: %w: %s", plugin.Manifest.Name, ErrExportFailed, resp.Error)
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return resp.Data, contentType, nil
}
