package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLaravelHost(t *testing.T) {
	host := NewLaravelHost(t)

	assert.Equal(t, LaravelFiles, Snapshot(t, host))
	assert.True(t, Exists(t, host, "resources/css/app.css"))
	assert.False(t, Exists(t, host, "resources/sass"))
}

func TestCreateTempApplication(t *testing.T) {
	dir := CreateTempApplication(t)

	for path, content := range LaravelFiles {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		require.NoError(t, err, path)
		assert.Equal(t, content, string(data))
	}
}

func TestSnapshotSkipsDirectories(t *testing.T) {
	host := afero.NewMemMapFs()
	require.NoError(t, host.MkdirAll("resources/sass/base", 0o755))
	WriteFile(t, host, "resources/js/app.js", "x")

	assert.Equal(t, map[string]string{"resources/js/app.js": "x"}, Snapshot(t, host))
	assert.Equal(t, "x", ReadFile(t, host, "resources/js/app.js"))
}
