// Package install materializes the declarative [Install] section of placed
// units as the directory-and-symlink structure the service manager scans
// when activating a target: for every listed target a {target}.{wants,
// requires,upholds} directory holding a relative symlink back to the unit.
package install

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
	"github.com/multiquadlet-dev/multiquadlet/internal/unitfile"
)

// dependency kinds and their Install-section keys and directory suffixes.
var kinds = []struct {
	key    string // [Install] key
	suffix string // dependency directory suffix
}{
	{"WantedBy", "wants"},
	{"RequiredBy", "requires"},
	{"UpheldBy", "upholds"},
}

// Resolver expands Install sections under a single output root.
type Resolver struct {
	Root string // final output directory holding the placed units
	Log  *slog.Logger
}

// Resolve processes the Install section of the named unit in the output
// root. A unit without an Install section is a no-op. The first symlink
// failure abandons the unit's remaining dependency pairs; earlier links
// stay in place.
func (r *Resolver) Resolve(unitName string) error {
	unitPath := filepath.Join(r.Root, unitName)
	if _, err := os.Stat(unitPath); err != nil {
		return apperrors.NewUnitError(unitName, "placed unit not found", err)
	}

	f, err := unitfile.ParseFile(unitPath)
	if err != nil {
		return apperrors.NewUnitError(unitName, "cannot parse unit", err)
	}
	if !f.HasSection("Install") {
		r.Log.Debug("no Install section, nothing to link", "unit", unitName)
		return nil
	}

	for _, kind := range kinds {
		targets := f.Values("Install", kind.key)
		if len(targets) == 0 {
			continue
		}
		r.Log.Info("installing unit", "unit", unitName, "kind", kind.suffix, "targets", targets)
		for _, target := range targets {
			if err := r.link(unitName, target, kind.suffix); err != nil {
				return err
			}
		}
	}
	return nil
}

// link creates {root}/{target}.{suffix}/{unitName} -> ../{unitName}.
// An identical existing link is accepted; anything else at that path is an
// error.
func (r *Resolver) link(unitName, target, suffix string) error {
	dir := filepath.Join(r.Root, target+"."+suffix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewUnitError(unitName,
			fmt.Sprintf("cannot create dependency directory %s", dir), err)
	}

	linkPath := filepath.Join(dir, unitName)
	linkTarget := filepath.Join("..", unitName)
	err := os.Symlink(linkTarget, linkPath)
	if err == nil {
		r.Log.Debug("created symlink", "link", linkPath, "target", linkTarget)
		return nil
	}
	if os.IsExist(err) {
		if existing, readErr := os.Readlink(linkPath); readErr == nil && existing == linkTarget {
			r.Log.Debug("symlink already exists", "link", linkPath)
			return nil
		}
		return apperrors.NewUnitError(unitName,
			fmt.Sprintf("%s exists and is not the expected symlink", linkPath), err)
	}
	return apperrors.NewUnitError(unitName,
		fmt.Sprintf("cannot create symlink %s", linkPath), err)
}
