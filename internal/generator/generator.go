// Package generator invokes the external Quadlet generator. The generator
// is opaque: given an input unit-source directory and three output
// directories it either produces unit files in those directories or fails
// with a status code and diagnostic text. Tests substitute a fake Invoker.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

// UnitDirsEnv is the environment variable pointing the external generator
// at the staged input directory instead of its default search locations.
const UnitDirsEnv = "QUADLET_UNIT_DIRS"

// Invoker runs the external generator against a staging area.
type Invoker interface {
	// Run invokes the generator with inputDir as its unit search path and
	// outDirs as its primary/early/late output directories. It returns the
	// generator's combined stdout/stderr; a nil error means exit 0.
	Run(ctx context.Context, inputDir string, outDirs [3]string) (string, error)
}

// ExecInvoker runs the real generator executable as a blocking subprocess.
type ExecInvoker struct {
	// Path is the generator executable, e.g.
	// /usr/lib/systemd/system-generators/podman-system-generator.
	Path string
}

// Run executes the generator and waits for it to finish. Combined
// stdout/stderr is attached to the returned error; the generator's exit
// code is propagated inside a GeneratorError.
func (e *ExecInvoker) Run(ctx context.Context, inputDir string, outDirs [3]string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Path, outDirs[0], outDirs[1], outDirs[2])
	cmd.Env = append(os.Environ(), UnitDirsEnv+"="+inputDir)

	output, err := cmd.CombinedOutput()
	if err == nil {
		return string(output), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), apperrors.NewGeneratorError(e.Path, exitErr.ExitCode(), string(output), err)
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
		return "", apperrors.NewGeneratorError(e.Path, 1, "",
			fmt.Errorf("generator not found: %w", err))
	}
	return string(output), apperrors.NewGeneratorError(e.Path, 1, string(output), err)
}
