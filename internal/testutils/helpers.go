// Package testutils builds Laravel application trees for tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Files of a freshly created Laravel application scaffolded with the
// Tailwind toolchain.
var LaravelFiles = map[string]string{
	"package.json": `{
  "private": true,
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "vite build"
  },
  "devDependencies": {
    "autoprefixer": "^10.4.2",
    "laravel-vite-plugin": "^1.0",
    "tailwindcss": "^3.1.0",
    "vite": "^5.0"
  }
}
`,
	"composer.json": `{
  "name": "laravel/laravel",
  "require": {
    "php": "^8.2",
    "laravel/framework": "^11.0"
  },
  "require-dev": {
    "phpunit/phpunit": "^11.0"
  }
}
`,
	"vite.config.js":                    "export default defineConfig({ plugins: [laravel({ input: ['resources/css/app.css', 'resources/js/app.js'] })] });\n",
	"tailwind.config.js":                "export default { content: [] };\n",
	"postcss.config.js":                 "export default { plugins: { tailwindcss: {} } };\n",
	"resources/css/app.css":             "@tailwind base;\n",
	"resources/js/app.js":               "import './bootstrap';\n",
	"resources/js/bootstrap.js":         "import axios from 'axios';\n",
	"resources/views/welcome.blade.php": "<script src=\"https://cdn.tailwindcss.com\"></script>\n",
	"routes/web.php":                    "<?php\n\nuse Illuminate\\Support\\Facades\\Route;\n",
}

// NewLaravelHost returns an in-memory application holding LaravelFiles.
func NewLaravelHost(t *testing.T) afero.Fs {
	t.Helper()
	host := afero.NewMemMapFs()
	for path, content := range LaravelFiles {
		WriteFile(t, host, path, content)
	}
	return host
}

// CreateTempApplication writes LaravelFiles into a temporary directory and
// returns it.
func CreateTempApplication(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	host := afero.NewBasePathFs(afero.NewOsFs(), dir)
	for path, content := range LaravelFiles {
		WriteFile(t, host, path, content)
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, path)
	return string(data)
}

// Exists reports whether path exists.
func Exists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	require.NoError(t, err)
	return ok
}

// Snapshot returns every file of fsys keyed by slash-separated path.
func Snapshot(t *testing.T, fsys afero.Fs) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := afero.Walk(fsys, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(p)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
