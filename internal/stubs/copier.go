package stubs

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/logging"
)

// Outcome is what a single copy did.
type Outcome int

const (
	// Written means the destination was created or replaced.
	Written Outcome = iota
	// Unchanged means the destination already had the template's content.
	Unchanged
	// Kept means the destination existed and SkipExisting was set.
	Kept
	// Missing means the template does not exist; nothing was done.
	Missing
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Kept:
		return "kept"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// CopyOptions controls overwrite behavior.
type CopyOptions struct {
	// SkipExisting keeps a destination that already exists.
	SkipExisting bool
}

// TreeResult lists the destinations touched by CopyTree, by outcome.
type TreeResult struct {
	Written   []string
	Unchanged []string
	Kept      []string
}

// Copier copies templates from a read-only tree into the host filesystem.
type Copier struct {
	src    fs.FS
	dst    afero.Fs
	logger logging.Logger
}

// NewCopier creates a copier from src into dst.
func NewCopier(src fs.FS, dst afero.Fs, logger logging.Logger) *Copier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Copier{src: src, dst: dst, logger: logger.WithComponent("stubs")}
}

// Content reads a template.
func (c *Copier) Content(src string) ([]byte, error) {
	data, err := fs.ReadFile(c.src, src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kiterrors.NewMissingInputError(kiterrors.ErrCodeTemplateMissing, src)
		}
		return nil, kiterrors.WrapIO(err, src, "failed to read template")
	}
	return data, nil
}

// Identical reports whether the file at dst has exactly the content of the
// template src. A missing file or template is never identical.
func (c *Copier) Identical(src, dst string) bool {
	want, err := c.Content(src)
	if err != nil {
		return false
	}
	have, err := afero.ReadFile(c.dst, dst)
	if err != nil {
		return false
	}
	return bytes.Equal(want, have)
}

// Copy copies a TemplateFile.
func (c *Copier) Copy(ctx context.Context, tf TemplateFile, opts CopyOptions) (Outcome, error) {
	return c.CopyFile(ctx, tf.Source, tf.Destination, opts)
}

// CopyFile copies the template src to dst, creating parent directories.
// A missing template is a silent no-op.
func (c *Copier) CopyFile(ctx context.Context, src, dst string, opts CopyOptions) (Outcome, error) {
	data, err := c.Content(src)
	if err != nil {
		if kiterrors.IsMissingInput(err) {
			c.logger.Debug(ctx, "Template missing, skipping", "template", src, "destination", dst)
			return Missing, nil
		}
		return Missing, err
	}

	existing, err := afero.ReadFile(c.dst, dst)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return Unchanged, nil
		}
		if opts.SkipExisting {
			c.logger.Debug(ctx, "Keeping existing file", "destination", dst)
			return Kept, nil
		}
	case !os.IsNotExist(err):
		return Missing, kiterrors.WrapIO(err, dst, "failed to read destination")
	}

	if err := c.dst.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Missing, kiterrors.WrapIO(err, filepath.Dir(dst), "failed to create directory")
	}
	if err := afero.WriteFile(c.dst, dst, data, 0o644); err != nil {
		return Missing, kiterrors.WrapIO(err, dst, "failed to write file")
	}

	c.logger.Debug(ctx, "Copied template", "template", src, "destination", dst, "bytes", len(data))
	return Written, nil
}

// CopyTree copies every template under srcDir into dstDir, keeping relative
// paths. A missing srcDir is a silent no-op.
func (c *Copier) CopyTree(ctx context.Context, srcDir, dstDir string, opts CopyOptions) (TreeResult, error) {
	var result TreeResult

	if _, err := fs.Stat(c.src, srcDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug(ctx, "Template directory missing, skipping", "template", srcDir)
			return result, nil
		}
		return result, kiterrors.WrapIO(err, srcDir, "failed to stat template directory")
	}

	err := fs.WalkDir(c.src, srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		rel, err := relPath(srcDir, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, filepath.FromSlash(rel))

		outcome, err := c.CopyFile(ctx, p, dst, opts)
		if err != nil {
			return err
		}
		switch outcome {
		case Written:
			result.Written = append(result.Written, dst)
		case Unchanged:
			result.Unchanged = append(result.Unchanged, dst)
		case Kept:
			result.Kept = append(result.Kept, dst)
		}
		return nil
	})
	if err != nil {
		var ke *kiterrors.KitError
		if errors.As(err, &ke) {
			return result, err
		}
		return result, kiterrors.WrapIO(err, srcDir, "failed to copy template directory")
	}

	return result, nil
}

func relPath(base, p string) (string, error) {
	if base == "." || base == "" {
		return p, nil
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(p))
	if err != nil {
		return "", err
	}
	return path.Clean(filepath.ToSlash(rel)), nil
}
