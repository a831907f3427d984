package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, dir string, m Manifest) {
	t.Helper()
	pluginDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0o644))
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "svg", Manifest{
		Name:        "svg-export",
		Version:     "1.0.0",
		Description: "Vector export",
		Executable:  "svg-export",
		Formats:     []string{"svg"},
	})

	m := NewManager(root, nil)
	require.NoError(t, m.Discover())

	plugins := m.List()
	require.Len(t, plugins, 1)

	p := plugins[0]
	assert.Equal(t, "svg-export", p.Manifest.Name)
	assert.Equal(t, "1.0.0", p.Manifest.Version)
	assert.Equal(t, []string{"svg"}, p.Manifest.Formats)
	assert.Equal(t, filepath.Join(root, "svg"), p.Path)
	assert.Equal(t, filepath.Join(root, "svg", "svg-export"), p.Executable)
}

func TestManager_Discover_SkipsBadPlugins(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "good", Manifest{Name: "good", Executable: "good", Formats: []string{"svg"}})
	writeManifest(t, root, "nameless", Manifest{Executable: "x"})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "plugin.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	m := NewManager(root, nil)
	require.NoError(t, m.Discover())

	plugins := m.List()
	require.Len(t, plugins, 1)
	assert.Equal(t, "good", plugins[0].Manifest.Name)
}

func TestManager_Discover_MissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, m.Discover())
	assert.Empty(t, m.List())
}

func TestManager_Discover_FileInsteadOfDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.Error(t, NewManager(path, nil).Discover())
}

func TestManager_Discover_Rescan(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a", Manifest{Name: "a", Executable: "a"})

	m := NewManager(root, nil)
	require.NoError(t, m.Discover())
	require.Len(t, m.List(), 1)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "a")))
	require.NoError(t, m.Discover())
	assert.Empty(t, m.List())
}

func TestManager_Lookup(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "webm", Manifest{Name: "webm-export", Executable: "webm", Formats: []string{"webm", "gif"}})
	writeManifest(t, root, "svg", Manifest{Name: "svg-export", Executable: "svg", Formats: []string{"svg"}})
	writeManifest(t, root, "svg2", Manifest{Name: "alt-svg", Executable: "svg", Formats: []string{"svg"}})

	m := NewManager(root, nil)
	require.NoError(t, m.Discover())

	t.Run("get by name", func(t *testing.T) {
		p, err := m.Get("webm-export")
		require.NoError(t, err)
		assert.Equal(t, "webm-export", p.Manifest.Name)

		_, err = m.Get("missing")
		assert.ErrorIs(t, err, ErrPluginNotFound)
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		var names []string
		for _, p := range m.List() {
			names = append(names, p.Manifest.Name)
		}
		assert.Equal(t, []string{"alt-svg", "svg-export", "webm-export"}, names)
	})

	t.Run("for format picks the first by name", func(t *testing.T) {
		p, err := m.ForFormat("svg")
		require.NoError(t, err)
		assert.Equal(t, "alt-svg", p.Manifest.Name)

		p, err = m.ForFormat("gif")
		require.NoError(t, err)
		assert.Equal(t, "webm-export", p.Manifest.Name)

		_, err = m.ForFormat("png")
		assert.ErrorIs(t, err, ErrPluginNotFound)
	})

	t.Run("formats", func(t *testing.T) {
		assert.Equal(t, []string{"gif", "svg", "webm"}, m.Formats())
	})

	assert.Equal(t, root, m.PluginDir())
}
