package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/manifest"
	"github.com/conneroisu/balkit/internal/stubs"
)

// Backup suffixes. The timestamp is appended in timestampLayout.
const (
	BackupSuffix   = ".bal-kit-backup-"
	OriginalSuffix = ".laravel-original-"

	timestampLayout = "2006-01-02-15-04-05"
)

// backupExistingFiles copies every configured host file aside before the
// install touches it. Failures are logged and never stop the run.
func (in *Installer) backupExistingFiles(ctx context.Context, r *Report) {
	r.info("Creating backup of existing files...")

	for _, file := range in.config.Backup.Files {
		if !in.exists(file) {
			continue
		}
		if in.producedByBalKit(file) {
			in.logger.Debug(ctx, "Skipping backup of unchanged BAL Kit file", "path", file)
			continue
		}

		dst, err := in.copyAside(file, BackupSuffix)
		if err != nil {
			in.logger.Warn(ctx, err, "Backup failed", "path", file)
			r.Notices.Warn(phaseBackup, err)
			continue
		}
		r.comment(fmt.Sprintf("Backed up %s to %s", file, dst))
	}
}

// producedByBalKit reports whether path already holds exactly what the
// install would write there.
func (in *Installer) producedByBalKit(path string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))

	for _, tf := range []stubs.TemplateFile{stubs.JSApp, stubs.JSBootstrap, stubs.ViteConfig, stubs.Layout} {
		if tf.Destination == clean {
			return in.copier.Identical(tf.Source, tf.Destination)
		}
	}

	if clean == manifest.PackageFile {
		m, err := manifest.Load(in.fs, manifest.PackageFile)
		return err == nil && m.HasScripts(manifest.BalKitScripts)
	}

	return false
}

// backupPath returns a free sibling path for path with the given suffix and
// the current timestamp.
func (in *Installer) backupPath(path, suffix string) string {
	base := path + suffix + in.now().Format(timestampLayout)
	candidate := base
	for i := 1; in.exists(candidate); i++ {
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return candidate
}

// copyAside copies a file to a timestamped sibling and returns the sibling.
func (in *Installer) copyAside(path, suffix string) (string, error) {
	info, err := in.fs.Stat(path)
	if err != nil {
		return "", kiterrors.WrapIO(err, path, "failed to stat file")
	}
	data, err := afero.ReadFile(in.fs, path)
	if err != nil {
		return "", kiterrors.WrapIO(err, path, "failed to read file")
	}

	dst := in.backupPath(path, suffix)
	if err := afero.WriteFile(in.fs, dst, data, info.Mode().Perm()); err != nil {
		return "", kiterrors.WrapIO(err, dst, "failed to write backup")
	}
	return dst, nil
}

// moveAside moves a file or directory to a timestamped sibling so it no
// longer occupies its path, and returns the sibling.
func (in *Installer) moveAside(path string) (string, error) {
	info, err := in.fs.Stat(path)
	if err != nil {
		return "", kiterrors.WrapIO(err, path, "failed to stat path")
	}
	dst := in.backupPath(path, BackupSuffix)

	if !info.IsDir() {
		if err := in.fs.Rename(path, dst); err != nil {
			return "", kiterrors.WrapIO(err, path, "failed to move file")
		}
		return dst, nil
	}

	copied, err := in.copyDir(path, dst)
	if err != nil {
		return "", err
	}
	// deepest paths first so every directory is empty when removed
	for i := len(copied) - 1; i >= 0; i-- {
		if err := in.fs.Remove(copied[i]); err != nil {
			return "", kiterrors.WrapIO(err, copied[i], "failed to remove")
		}
	}
	return dst, nil
}

// copyDir copies the tree at src to dst and returns the copied source paths
// in walk order.
func (in *Installer) copyDir(src, dst string) ([]string, error) {
	var copied []string
	err := afero.Walk(in.fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return kiterrors.WrapIO(err, p, "failed to walk directory")
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return kiterrors.WrapIO(err, p, "failed to resolve path")
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if err := in.fs.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return kiterrors.WrapIO(err, target, "failed to create directory")
			}
			copied = append(copied, p)
			return nil
		}

		data, err := afero.ReadFile(in.fs, p)
		if err != nil {
			return kiterrors.WrapIO(err, p, "failed to read file")
		}
		if err := afero.WriteFile(in.fs, target, data, info.Mode().Perm()); err != nil {
			return kiterrors.WrapIO(err, target, "failed to write file")
		}
		copied = append(copied, p)
		return nil
	})
	return copied, err
}

func (in *Installer) exists(path string) bool {
	ok, err := afero.Exists(in.fs, path)
	return err == nil && ok
}

func (in *Installer) isDir(path string) bool {
	ok, err := afero.DirExists(in.fs, path)
	return err == nil && ok
}
