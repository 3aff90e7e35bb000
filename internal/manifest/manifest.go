// Package manifest edits the host's package.json and reads its composer.json.
//
// Edits are applied to the raw bytes of the file, so members the installer
// does not touch keep their position and formatting.
package manifest

import (
	"errors"
	"os"

	"github.com/buger/jsonparser"
	"github.com/spf13/afero"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
)

const (
	PackageFile  = "package.json"
	ComposerFile = "composer.json"
)

// Dependency sections of package.json and composer.json.
const (
	Dependencies    = "dependencies"
	DevDependencies = "devDependencies"
	Require         = "require"
	RequireDev      = "require-dev"
)

const scriptsKey = "scripts"

// Script is one package.json script entry.
type Script struct {
	Name    string
	Command string
}

// BalKitScripts are merged into package.json during the foundation phase.
var BalKitScripts = []Script{
	{Name: "bal:dev", Command: "vite"},
	{Name: "bal:build", Command: "vite build"},
	{Name: "bal:preview", Command: "vite preview"},
}

// TailwindPackages are the packages left behind by the incompatible toolchain.
var TailwindPackages = []string{"tailwindcss", "postcss", "autoprefixer", "@tailwindcss/forms"}

// Manifest is a loaded package.json or composer.json.
type Manifest struct {
	Path string
	data []byte
	mode os.FileMode
}

// Load reads and parses a manifest. A missing file yields a MissingInput error.
func Load(fsys afero.Fs, path string) (*Manifest, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kiterrors.NewMissingInputError(kiterrors.ErrCodeFileNotFound, path)
		}
		return nil, kiterrors.WrapIO(err, path, "failed to stat manifest")
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, kiterrors.WrapIO(err, path, "failed to read manifest")
	}

	m, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	m.mode = info.Mode().Perm()
	return m, nil
}

// Parse wraps the bytes of a manifest. The document must be a JSON object.
func Parse(path string, data []byte) (*Manifest, error) {
	err := jsonparser.ObjectEach(data, func(_, _ []byte, _ jsonparser.ValueType, _ int) error {
		return nil
	})
	if err != nil {
		return nil, kiterrors.WrapValidation(err, kiterrors.ErrCodeManifestInvalid, "invalid JSON manifest").
			WithPath(path)
	}
	return &Manifest{Path: path, data: data}, nil
}

// Keys lists the member names of the object at path, in document order. An
// empty path lists the top-level members.
func (m *Manifest) Keys(path ...string) ([]string, error) {
	var keys []string
	err := jsonparser.ObjectEach(m.data, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	}, path...)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Script returns the command of a package.json script.
func (m *Manifest) Script(name string) (string, bool) {
	cmd, err := jsonparser.GetString(m.data, scriptsKey, name)
	if err != nil {
		return "", false
	}
	return cmd, true
}

// HasScripts reports whether every script is present with the same command.
func (m *Manifest) HasScripts(scripts []Script) bool {
	for _, s := range scripts {
		cmd, ok := m.Script(s.Name)
		if !ok || cmd != s.Command {
			return false
		}
	}
	return true
}

// MergeScripts adds scripts to the "scripts" object. Existing entries keep
// their position; on a name collision the given command wins. A missing or
// null "scripts" member is created. It reports whether anything changed.
func (m *Manifest) MergeScripts(scripts []Script) (bool, error) {
	if m.HasScripts(scripts) {
		return false, nil
	}

	data := m.data
	_, kind, _, err := jsonparser.Get(data, scriptsKey)
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
		start, end := rootSpan(data)
		data, err = insertMember(data, start, end, scriptsKey, []byte("{}"))
	case err != nil:
		return false, m.invalid(err)
	case kind == jsonparser.Null:
		data, err = jsonparser.Set(data, []byte("{}"), scriptsKey)
	case kind != jsonparser.Object:
		return false, kiterrors.NewValidationError(kiterrors.ErrCodeManifestInvalid, "scripts is not an object").
			WithPath(m.Path)
	}
	if err != nil {
		return false, m.invalid(err)
	}

	for _, s := range scripts {
		value, err := encodeString(s.Command)
		if err != nil {
			return false, kiterrors.WrapInternal(err, kiterrors.ErrCodeInternalError, "failed to encode script")
		}

		if _, _, _, err := jsonparser.Get(data, scriptsKey, s.Name); err == nil {
			data, err = jsonparser.Set(data, value, scriptsKey, s.Name)
			if err != nil {
				return false, m.invalid(err)
			}
			continue
		}

		start, end, err := objectSpan(data, scriptsKey)
		if err != nil {
			return false, m.invalid(err)
		}
		if data, err = insertMember(data, start, end, s.Name, value); err != nil {
			return false, kiterrors.WrapInternal(err, kiterrors.ErrCodeInternalError, "failed to encode script")
		}
	}

	m.data = data
	return true, nil
}

// HasDependency reports whether name is listed in any of the sections.
func (m *Manifest) HasDependency(name string, sections ...string) bool {
	for _, section := range sections {
		if _, _, _, err := jsonparser.Get(m.data, section, name); err == nil {
			return true
		}
	}
	return false
}

// HasAnyDependency reports whether any of names is listed in dependencies or
// devDependencies.
func (m *Manifest) HasAnyDependency(names ...string) bool {
	for _, name := range names {
		if m.HasDependency(name, Dependencies, DevDependencies) {
			return true
		}
	}
	return false
}

// Requires reports whether a composer package is in require.
func (m *Manifest) Requires(pkg string) bool {
	return m.HasDependency(pkg, Require)
}

// RequiresAny reports whether a composer package is in require or require-dev.
func (m *Manifest) RequiresAny(pkg string) bool {
	return m.HasDependency(pkg, Require, RequireDev)
}

// Bytes returns the manifest as it would be saved.
func (m *Manifest) Bytes() []byte {
	return m.data
}

// Save writes the manifest back, keeping the original file mode.
func (m *Manifest) Save(fsys afero.Fs) error {
	mode := m.mode
	if mode == 0 {
		mode = 0o644
	}
	if err := afero.WriteFile(fsys, m.Path, m.data, mode); err != nil {
		return kiterrors.WrapIO(err, m.Path, "failed to write manifest")
	}
	return nil
}

func (m *Manifest) invalid(err error) error {
	return kiterrors.WrapValidation(err, kiterrors.ErrCodeManifestInvalid, "invalid JSON manifest").
		WithPath(m.Path)
}
