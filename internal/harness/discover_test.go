package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverScenarios(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "nested/c.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name: x"), 0644))
	}

	files, err := DiscoverScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)
}

func TestDiscoverScenarios_SingleFile(t *testing.T) {
	files, err := DiscoverScenarios("testdata/scenarios/pump_due_soon.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/scenarios/pump_due_soon.yaml"}, files)
}

func TestDiscoverScenarios_Missing(t *testing.T) {
	_, err := DiscoverScenarios("/nonexistent/scenarios")
	assert.Error(t, err)
}
