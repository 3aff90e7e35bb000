// Package stubs holds the template tree balkit copies into a host
// application and the copier that materializes it.
//
// Templates are embedded in the binary. A directory on the host, configured
// with stubs.path or created by `balkit publish --stubs`, replaces the
// embedded tree when present.
package stubs

import (
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:embed all:files
var embedded embed.FS

// PublishedDir is where `balkit publish --stubs` exports the templates.
const PublishedDir = "stubs/bal-kit"

// TemplateFile pairs a template path with its destination in the host.
type TemplateFile struct {
	Source      string
	Destination string
}

// The single-file templates used by the installer.
var (
	JSApp       = TemplateFile{Source: "js/app.js", Destination: "resources/js/app.js"}
	JSBootstrap = TemplateFile{Source: "js/bootstrap.js", Destination: "resources/js/bootstrap.js"}
	ViteConfig  = TemplateFile{Source: "vite.config.js", Destination: "vite.config.js"}
	Layout      = TemplateFile{Source: "layouts/app.blade.php", Destination: "resources/views/layouts/app.blade.php"}
	Welcome     = TemplateFile{Source: "pages/welcome.blade.php", Destination: "resources/views/welcome.blade.php"}
	Login       = TemplateFile{Source: "auth/login.blade.php", Destination: "resources/views/auth/login.blade.php"}
	Register    = TemplateFile{Source: "auth/register.blade.php", Destination: "resources/views/auth/register.blade.php"}
)

// Template directories and where they land in the host.
const (
	SassSource      = "sass"
	SassDestination = "resources/sass"
)

// Embedded returns the bundled template tree.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// "files" is a fixed, valid path
		panic(err)
	}
	return sub
}

// Resolve picks the template tree for a host. overrideDir may be empty, in
// which case the published directory is tried. Relative directories are
// resolved against the host filesystem. An override only needs to hold the
// templates it changes; every other file comes from the embedded tree.
func Resolve(host afero.Fs, overrideDir string) (fs.FS, string) {
	candidates := []string{overrideDir, PublishedDir}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		src := host
		// Absolute overrides may live outside the host root
		if filepath.IsAbs(dir) {
			src = afero.NewOsFs()
		}
		if isDir(src, dir) {
			return Overlay(afero.NewBasePathFs(src, dir)), dir
		}
	}
	return Embedded(), ""
}

// Overlay layers the templates in layer over the embedded tree. Directory
// listings are merged, and a file in layer wins over its embedded copy.
func Overlay(layer afero.Fs) fs.FS {
	base := afero.FromIOFS{FS: Embedded()}
	return afero.NewIOFS(afero.NewCopyOnWriteFs(base, afero.NewReadOnlyFs(layer)))
}

func isDir(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
