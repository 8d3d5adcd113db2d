package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/casperkit/casperkit/internal/platform"
	"github.com/casperkit/casperkit/internal/render"
	"github.com/spf13/afero"
)

// CheckTarget verifies root is absent or an empty directory. It reports
// whether root already exists.
func CheckTarget(fsys afero.Fs, root string) (bool, error) {
	info, err := fsys.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Kind: KindMaterialization, Path: root, Err: fmt.Errorf("checking destination: %w", err)}
	}
	if !info.IsDir() {
		return true, &Error{Kind: KindTargetExists, Path: root, Err: errors.New("path is not a directory")}
	}
	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return true, &Error{Kind: KindMaterialization, Path: root, Err: fmt.Errorf("reading destination: %w", err)}
	}
	if len(entries) > 0 {
		return true, &Error{Kind: KindTargetExists, Path: root, Err: errors.New("directory is not empty")}
	}
	return true, nil
}

// Materialize writes files under root and returns their paths in write order.
// root must be absent or empty. On failure it removes what it wrote on a
// best-effort basis: root itself if this call created it, otherwise every
// entry under root. Directories created above root are left in place.
func Materialize(fsys afero.Fs, root string, files []render.File) ([]string, error) {
	existed, err := CheckTarget(fsys, root)
	if err != nil {
		return nil, err
	}

	if err := fsys.MkdirAll(root, 0755); err != nil {
		return nil, &Error{Kind: KindMaterialization, Path: root, Err: fmt.Errorf("creating directory: %w", err)}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := writeFile(fsys, root, f); err != nil {
			if cleanupErr := cleanup(fsys, root, existed); cleanupErr != nil {
				err = errors.Join(err, fmt.Errorf("cleaning up partial project: %w", cleanupErr))
			}
			return nil, &Error{Kind: KindMaterialization, Path: root, Err: err}
		}
		written = append(written, f.Path)
	}
	return written, nil
}

func writeFile(fsys afero.Fs, root string, f render.File) error {
	if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
		return fmt.Errorf("refusing to write %q outside the project", f.Path)
	}
	path := filepath.Join(root, filepath.FromSlash(f.Path))
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Path, err)
	}

	mode := platform.FileMode(f.Executable)
	out, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Path, err)
	}
	if _, err := out.Write(f.Content); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.Path, err)
	}

	// OpenFile's mode is filtered by the umask.
	if err := platform.Chmod(fsys, path, mode); err != nil {
		return fmt.Errorf("setting mode of %s: %w", f.Path, err)
	}
	return nil
}

func cleanup(fsys afero.Fs, root string, existed bool) error {
	if !existed {
		return fsys.RemoveAll(root)
	}
	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entries {
		if err := fsys.RemoveAll(filepath.Join(root, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
