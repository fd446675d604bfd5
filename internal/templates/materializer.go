package templates

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
)

// Materializer copies a manifest from a template root into a project.
type Materializer struct {
	// Skeleton directories are created before copying, even if no entry
	// lands in them.
	Skeleton []string
}

// NewMaterializer returns a materializer using the create skeleton.
func NewMaterializer() *Materializer {
	return &Materializer{Skeleton: Skeleton}
}

// Materialize is NewMaterializer().Materialize.
func Materialize(destRoot, templateRoot string, m Manifest) (*CreationReport, error) {
	return NewMaterializer().Materialize(destRoot, templateRoot, m)
}

// Materialize creates the skeleton under destRoot and copies every entry in
// manifest order. Missing sources and per-file I/O errors are recorded in the
// report; the call only fails outright when the skeleton cannot be created or
// no entry was copied. The report is returned in both cases.
func (mt *Materializer) Materialize(destRoot, templateRoot string, m Manifest) (*CreationReport, error) {
	root, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", destRoot, err)
	}
	report := &CreationReport{DestRoot: root, TemplateRoot: templateRoot}

	for _, dir := range mt.Skeleton {
		target, err := within(root, dir)
		if err != nil {
			return report, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return report, fmt.Errorf("creating %s: %w", dir, err)
		}
		report.Directories = append(report.Directories, dir)
	}

	copied := 0
	for _, entry := range m.Entries() {
		res := CopyResult{Entry: entry}
		src := filepath.Join(templateRoot, entry.Source)

		dst, err := within(root, entry.Dest)
		if err == nil {
			err = copyFile(src, dst)
		}
		switch {
		case err == nil:
			res.Status = StatusCopied
			copied++
			output.Debug("copied template", "source", entry.Source, "dest", entry.Dest)
		case os.IsNotExist(err):
			res.Status = StatusMissingSource
			if entry.Required {
				output.Warn("required template missing", "source", entry.Source)
			} else {
				output.Debug("template missing", "source", entry.Source)
			}
		default:
			res.Status = StatusError
			res.Err = err
			output.Error("copying template", "source", entry.Source, "err", err)
		}
		report.Results = append(report.Results, res)
	}

	if copied == 0 {
		return report, fmt.Errorf("%w: %s yielded no files", oerrors.ErrEmptyMaterialization, templateRoot)
	}
	return report, nil
}

// within joins rel onto root, refusing anything that would land outside it.
func within(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %q escapes %s", oerrors.ErrValidation, rel, root)
	}
	return filepath.Join(root, clean), nil
}

// copyFile copies src to dst, creating dst's parents. A missing src is
// reported with an error satisfying os.IsNotExist before anything is
// written.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return out.Close()
}
