// Package engine sequences the generator pipeline: stage sources, split
// composite files, invoke the external generator, rewrite provenance,
// place units into the final output directory and resolve their Install
// sections. The engine owns the run's error and exit policy.
package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
	"github.com/multiquadlet-dev/multiquadlet/internal/composite"
	"github.com/multiquadlet-dev/multiquadlet/internal/config"
	"github.com/multiquadlet-dev/multiquadlet/internal/generator"
	"github.com/multiquadlet-dev/multiquadlet/internal/install"
	"github.com/multiquadlet-dev/multiquadlet/internal/provenance"
	"github.com/multiquadlet-dev/multiquadlet/internal/staging"
	"github.com/multiquadlet-dev/multiquadlet/internal/unitfile"
)

// Engine runs the whole pipeline once. It is single-threaded; the only
// blocking point is the external generator invocation.
type Engine struct {
	cfg     *config.Config
	invoker generator.Invoker
	log     *slog.Logger
}

// New creates an engine. Every log record carries a run ID so interleaved
// generator runs can be told apart in the journal.
func New(cfg *config.Config, invoker generator.Invoker, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		invoker: invoker,
		log:     logger.With("run", uuid.NewString()),
	}
}

// Run executes the pipeline. gendir is the final output directory;
// earlyDir and lateDir are optional and receive the generator's early/late
// output when given. Recoverable per-source and per-unit failures are
// logged and skipped; configuration and generator failures abort the run.
func (e *Engine) Run(ctx context.Context, gendir, earlyDir, lateDir string) error {
	info, err := os.Stat(e.cfg.UnitDir)
	if os.IsNotExist(err) {
		e.log.Warn("input directory does not exist, nothing to do", "dir", e.cfg.UnitDir)
		return nil
	}
	if err != nil {
		return apperrors.NewConfigurationError(e.cfg.UnitDir, "cannot access input directory", err)
	}
	if !info.IsDir() {
		return apperrors.NewConfigurationError(e.cfg.UnitDir, "input path is not a directory", nil)
	}

	area := &staging.Area{Root: e.cfg.StagingDir}
	if err := area.Prepare(); err != nil {
		return err
	}
	defer area.Cleanup()
	e.log.Debug("staging area prepared", "root", area.Root)

	ledger := provenance.NewLedger()
	if err := e.stageSources(area, ledger); err != nil {
		return err
	}

	e.log.Info("invoking external generator", "path", e.cfg.GeneratorPath)
	output, err := e.invoker.Run(ctx, area.Input(), area.OutputDirs())
	if output != "" {
		e.log.Debug("generator output", "output", output)
	}
	if err != nil {
		return err
	}

	e.rewritePrimary(area, ledger)

	placed := e.place(area, ledger, gendir)
	e.placePassthrough(area.Early(), earlyDir)
	e.placePassthrough(area.Late(), lateDir)

	e.resolveInstalls(gendir, placed)

	e.log.Info("finished")
	return nil
}

// stageSources copies pass-through unit sources into the staging input
// directory and splits composite files after them, so that on a name
// collision the pass-through file wins and the composite is skipped.
func (e *Engine) stageSources(area *staging.Area, ledger *provenance.Ledger) error {
	names, err := staging.List(e.cfg.UnitDir)
	if err != nil {
		return apperrors.NewConfigurationError(e.cfg.UnitDir, "cannot list input directory", err)
	}

	var composites []string
	for _, name := range names {
		src := filepath.Join(e.cfg.UnitDir, name)
		switch {
		case unitfile.IsComposite(name):
			composites = append(composites, src)
		case unitfile.IsQuadletSource(name) || unitfile.IsTopLevelUnit(name):
			if err := area.StageFile(src); err != nil {
				e.log.Error("skipping unreadable source", "source", src, "error", err)
				continue
			}
			derived, _ := unitfile.DerivedUnitName(name)
			ledger.Record(derived, src)
			e.log.Debug("staged pass-through file", "source", src)
		}
	}

	for _, src := range composites {
		e.splitComposite(area, ledger, src)
	}
	e.log.Info("staged sources", "units", ledger.Len())
	return nil
}

// splitComposite stages one composite file's segments all-or-nothing.
// Failures are per-source: logged, and the composite is skipped whole.
func (e *Engine) splitComposite(area *staging.Area, ledger *provenance.Ledger, src string) {
	e.log.Info("processing composite file", "source", src)
	segments, err := composite.Split(src)
	if err != nil {
		e.log.Error("skipping composite file", "source", src, "error", err)
		return
	}
	if len(segments) == 0 {
		e.log.Info("no segments in composite file", "source", src)
		return
	}
	if err := composite.WriteSegments(area.Input(), src, segments, config.ToolName); err != nil {
		e.log.Error("skipping composite file", "source", src, "error", err)
		return
	}
	for _, seg := range segments {
		if derived, ok := unitfile.DerivedUnitName(seg.Name); ok {
			ledger.Record(derived, src)
		}
		e.log.Debug("staged segment", "name", seg.Name, "source", src)
	}
}

// rewritePrimary patches SourcePath in every generator-produced unit. A
// ledger miss leaves the unit with its generator-assigned path.
func (e *Engine) rewritePrimary(area *staging.Area, ledger *provenance.Ledger) {
	names, err := staging.List(area.Primary())
	if err != nil {
		e.log.Error("cannot list generator output", "error", err)
		return
	}
	for _, name := range names {
		src, ok := ledger.Resolve(name)
		if !ok {
			e.log.Warn("no recorded source for generated unit", "unit", name)
			continue
		}
		if err := provenance.Rewrite(filepath.Join(area.Primary(), name), src); err != nil {
			e.log.Error("provenance rewrite failed", "unit", name, "error", err)
		}
	}
}

// place copies this run's units into gendir, never overwriting anything
// already there. Pass-through top-level units go first so they win name
// conflicts against generator output; their provenance is rewritten with
// the same ledger before placement. Returns the names actually placed.
func (e *Engine) place(area *staging.Area, ledger *provenance.Ledger, gendir string) []string {
	var placed []string

	staged, err := staging.List(area.Input())
	if err != nil {
		e.log.Error("cannot list staging input", "error", err)
		staged = nil
	}
	for _, name := range staged {
		if !unitfile.IsTopLevelUnit(name) {
			continue
		}
		stagedPath := filepath.Join(area.Input(), name)
		if src, ok := ledger.Resolve(name); ok {
			if err := provenance.Rewrite(stagedPath, src); err != nil {
				e.log.Error("provenance rewrite failed", "unit", name, "error", err)
			}
		}
		if e.placeUnit(stagedPath, gendir, name) {
			placed = append(placed, name)
		}
	}

	generated, err := staging.List(area.Primary())
	if err != nil {
		e.log.Error("cannot list generator output", "error", err)
		return placed
	}
	for _, name := range generated {
		if e.placeUnit(filepath.Join(area.Primary(), name), gendir, name) {
			placed = append(placed, name)
		}
	}
	return placed
}

func (e *Engine) placeUnit(src, gendir, name string) bool {
	if err := staging.CopyFile(src, filepath.Join(gendir, name)); err != nil {
		e.log.Error("skipping placement", "unit", name, "error", err)
		return false
	}
	e.log.Info("placed unit", "unit", name, "dir", gendir)
	return true
}

// placePassthrough copies a staging output directory's files into the
// corresponding optional gendir, uninspected, same no-clobber rule.
func (e *Engine) placePassthrough(stagedDir, destDir string) {
	names, err := staging.List(stagedDir)
	if err != nil {
		e.log.Error("cannot list staging output", "dir", stagedDir, "error", err)
		return
	}
	if destDir == "" {
		if len(names) > 0 {
			e.log.Debug("no destination for staged output", "dir", stagedDir, "files", len(names))
		}
		return
	}
	for _, name := range names {
		if err := staging.CopyFile(filepath.Join(stagedDir, name), filepath.Join(destDir, name)); err != nil {
			e.log.Error("skipping placement", "unit", name, "error", err)
		}
	}
}

func (e *Engine) resolveInstalls(gendir string, placed []string) {
	resolver := &install.Resolver{Root: gendir, Log: e.log}
	for _, name := range placed {
		if err := resolver.Resolve(name); err != nil {
			e.log.Error("install resolution failed", "unit", name, "error", err)
		}
	}
}
