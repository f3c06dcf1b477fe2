// Package staging manages the transient directories one generator run uses
// to communicate with the external generator: an input directory for staged
// unit sources and three output directories matching the generator's
// primary/early/late contract. The area lives for exactly one run.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

// Area is the run-scoped staging arena.
type Area struct {
	Root string
}

// Input returns the directory the external generator reads unit sources from.
func (a *Area) Input() string { return filepath.Join(a.Root, "input") }

// Primary returns the generator's primary output directory.
func (a *Area) Primary() string { return filepath.Join(a.Root, "primary") }

// Early returns the generator's early output directory.
func (a *Area) Early() string { return filepath.Join(a.Root, "early") }

// Late returns the generator's late output directory.
func (a *Area) Late() string { return filepath.Join(a.Root, "late") }

// OutputDirs returns the three generator output directories in the order
// the generator expects them as arguments.
func (a *Area) OutputDirs() [3]string {
	return [3]string{a.Primary(), a.Early(), a.Late()}
}

// Prepare tears down any leftover from a previous run and recreates the
// whole area empty. The generator contract requires all three output
// directories to exist and be empty at invocation time.
func (a *Area) Prepare() error {
	if err := os.RemoveAll(a.Root); err != nil {
		return apperrors.NewConfigurationError(a.Root, "cannot purge staging area", err)
	}
	for _, dir := range []string{a.Input(), a.Primary(), a.Early(), a.Late()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewConfigurationError(dir, "cannot create staging directory", err)
		}
	}
	return nil
}

// Cleanup removes the whole area, best-effort. Safe on every exit path.
func (a *Area) Cleanup() {
	os.RemoveAll(a.Root)
}

// StageFile copies the file at src into the input directory under its own
// base name.
func (a *Area) StageFile(src string) error {
	dest := filepath.Join(a.Input(), filepath.Base(src))
	if err := copyFile(src, dest); err != nil {
		return apperrors.NewSourceError(src, "cannot stage file", err)
	}
	return nil
}

// List returns the sorted file names (non-directories) in dir. A missing
// directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyFile copies src to dest without overwriting: an existing dest is
// reported as a no-clobber violation and left untouched.
func CopyFile(src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return apperrors.NewUnitError(filepath.Base(dest),
			fmt.Sprintf("destination %s already exists", dest), nil)
	}
	return copyFile(src, dest)
}
