package window

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tilt/internal/plugin"
)

func scriptPlugin(t *testing.T, script string) *plugin.Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "window-focus.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:       "window-focus",
			Executable: "window-focus.sh",
			Actions:    []string{ActionList, ActionActivate},
		},
		Path:       dir,
		Executable: path,
	}
}

func TestPluginBackend_List(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
cat >/dev/null
echo '{"success":true,"data":{"windows":[{"id":"42","title":"Subway Surfers - Poki","active":false}]}}'
`)
	backend := NewPluginBackend(plugin.NewExecutor(5*time.Second), p)

	windows, err := backend.List(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, Window{ID: "42", Title: "Subway Surfers - Poki"}, windows[0])
}

func TestPluginBackend_ActivateFailure(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
cat >/dev/null
echo '{"success":false,"error":"window 42 not found"}'
`)
	backend := NewPluginBackend(plugin.NewExecutor(5*time.Second), p)

	err := backend.Activate(context.Background(), Window{ID: "42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
