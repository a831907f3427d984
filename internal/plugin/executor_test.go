package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptPlugin writes a shell script plugin into a temp directory.
func scriptPlugin(t *testing.T, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins need a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return &Plugin{
		Manifest: Manifest{
			Name:       "script",
			Version:    "1.0.0",
			Executable: "plugin.sh",
			Formats:    []string{"svg"},
		},
		Path:       dir,
		Executable: path,
	}
}

func testGlyph() glyph.Glyph {
	return glyph.Glyph{
		Letter: "A",
		Mode:   gesture.ModeNone,
		Style:  gesture.DefaultStyle(),
		Dots:   []gesture.Dot{{X: 10, Y: 20, R: 30, Fill: "#DDE2FF", Stroke: "#000000", StrokeWidth: 3}},
	}
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("parses the response", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\ncat > /dev/null\n"+
			`echo '{"success":true,"content_type":"image/svg+xml","data":"PHN2Zy8+"}'`+"\n")

		resp, err := NewExecutor(5*time.Second, nil).Execute(context.Background(), p, &Request{Action: ActionExport, Format: "svg"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Error)
		assert.Equal(t, "image/svg+xml", resp.ContentType)
		assert.Equal(t, []byte("<svg/>"), resp.Data)
	})

	t.Run("sends the request on stdin", func(t *testing.T) {
		// The plugin copies its stdin into a file next to itself.
		p := scriptPlugin(t, "#!/bin/sh\ncat > request.json\n"+`echo '{"success":true}'`+"\n")

		_, err := NewExecutor(5*time.Second, nil).Execute(context.Background(), p, &Request{
			Action:    ActionExport,
			Format:    "svg",
			Glyph:     testGlyph(),
			StageSize: 860,
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(p.Path, "request.json"))
		require.NoError(t, err)

		var got Request
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, ActionExport, got.Action)
		assert.Equal(t, "svg", got.Format)
		assert.Equal(t, 860, got.StageSize)
		assert.Equal(t, testGlyph(), got.Glyph)
	})

	t.Run("timeout", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\nsleep 5\n")
		_, err := NewExecutor(100*time.Millisecond, nil).Execute(context.Background(), p, &Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("non-zero exit reports stderr", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\necho 'boom' >&2\nexit 1\n")
		_, err := NewExecutor(5*time.Second, nil).Execute(context.Background(), p, &Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("invalid JSON output", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\necho 'not json'\n")
		_, err := NewExecutor(5*time.Second, nil).Execute(context.Background(), p, &Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse plugin response")
	})

	t.Run("missing executable", func(t *testing.T) {
		p := &Plugin{Path: t.TempDir(), Executable: "/nonexistent/plugin"}
		_, err := NewExecutor(5*time.Second, nil).Execute(context.Background(), p, &Request{})
		assert.Error(t, err)
	})
}

func TestExecutor_Export(t *testing.T) {
	t.Run("returns data and content type", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\ncat > /dev/null\n"+
			`echo '{"success":true,"content_type":"image/svg+xml","data":"PHN2Zy8+"}'`+"\n")

		data, contentType, err := NewExecutor(5*time.Second, nil).Export(context.Background(), p, "svg", testGlyph(), 860)
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", string(data))
		assert.Equal(t, "image/svg+xml", contentType)
	})

	t.Run("defaults the content type", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\ncat > /dev/null\n"+`echo '{"success":true}'`+"\n")

		_, contentType, err := NewExecutor(5*time.Second, nil).Export(context.Background(), p, "svg", testGlyph(), 860)
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", contentType)
	})

	t.Run("reported failure", func(t *testing.T) {
		p := scriptPlugin(t, "#!/bin/sh\ncat > /dev/null\n"+`echo '{"success":false,"error":"no dots"}'`+"\n")

		_, _, err := NewExecutor(5*time.Second, nil).Export(context.Background(), p, "svg", testGlyph(), 860)
		assert.ErrorIs(t, err, ErrExportFailed)
		assert.Contains(t, err.Error(), "no dots")
	})
}
