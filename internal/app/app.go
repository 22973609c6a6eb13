// Package app wires one hdlbench invocation together: build the project
// graph from the loaded configuration, emit the editor config, optionally
// launch the simulator. Strictly sequential; a builder error aborts before
// anything is written.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"hdlbench/internal/config"
	"hdlbench/internal/fsglob"
	"hdlbench/internal/lsconfig"
	"hdlbench/internal/project"
	"hdlbench/internal/scan"
	"hdlbench/internal/shared/util"
	"hdlbench/internal/sim"
)

type Options struct {
	// CIMode is the --ci-mode flag; it is bound as the ci_mode generic on
	// every test bench that opts in.
	CIMode bool
	// Lenient forces lenient glob mode regardless of the config file.
	Lenient bool
	// BaseDir anchors a relative paths.project_root (the config file's
	// directory). Empty means current directory.
	BaseDir string

	// Test seams; nil selects the production implementations.
	Globber fsglob.Globber
	Scanner project.UnitScanner
	Runner  sim.Runner
}

type App struct {
	Config *config.Config
	Graph  *project.Project

	opts Options
	root string
}

func New(cfg *config.Config, opts Options) *App {
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	return &App{
		Config: cfg,
		opts:   opts,
		root:   util.AbsClean(base, cfg.Paths.ProjectRoot),
	}
}

// Root returns the resolved project root.
func (a *App) Root() string {
	return a.root
}

// Build populates the project graph. Any error leaves a.Graph nil so a
// partially-built graph can never be emitted.
func (a *App) Build() error {
	scanner := a.opts.Scanner
	if scanner == nil {
		scanner = scan.New()
	}

	p := project.New(project.Options{
		Root:         a.root,
		LenientGlobs: a.Config.Globs.Lenient || a.opts.Lenient,
		Globber:      a.opts.Globber,
	})

	for _, entry := range a.Config.Libraries {
		lib, err := p.AddLibrary(entry.Name)
		if err != nil {
			return err
		}
		if err := lib.AddSourceFiles(entry.Patterns...); err != nil {
			return err
		}
		slog.Debug("library resolved", "name", entry.Name, "files", len(lib.Files()))
	}

	for _, entry := range a.Config.TestBenches {
		tb, err := p.TestBench(entry.Library, entry.Unit, scanner)
		if err != nil {
			return err
		}
		if entry.CIModeGenericEnabled() {
			if err := tb.SetGeneric("ci_mode", cty.BoolVal(a.opts.CIMode)); err != nil {
				return err
			}
		}
		for _, key := range util.SortedStringKeys(entry.Generics) {
			value, err := project.FromGo(entry.Generics[key])
			if err != nil {
				return fmt.Errorf("generic %q of test bench %q: %w", key, entry.Unit, err)
			}
			if err := tb.SetGeneric(key, value); err != nil {
				return err
			}
		}
	}

	for _, key := range util.SortedStringKeys(a.Config.Simulator.Options) {
		value, err := project.FromGo(a.Config.Simulator.Options[key])
		if err != nil {
			return fmt.Errorf("simulator option %q: %w", key, err)
		}
		if err := p.SetSimOption(key, value); err != nil {
			return err
		}
	}

	a.Graph = p
	return nil
}

// EditorConfigPath resolves the artifact destination against the project
// root.
func (a *App) EditorConfigPath() string {
	return util.AbsClean(a.root, a.Config.Output.VHDLLS)
}

// EmitEditorConfig writes vhdl_ls.toml for the finished graph.
func (a *App) EmitEditorConfig() error {
	if a.Graph == nil {
		return fmt.Errorf("project graph has not been built")
	}
	dest := a.EditorConfigPath()
	if err := lsconfig.Emit(a.Graph, dest); err != nil {
		return err
	}
	slog.Info("editor config written", "path", dest)
	return nil
}

// RunSimulation hands the finished graph to the simulator runner.
func (a *App) RunSimulation(ctx context.Context) error {
	if a.Graph == nil {
		return fmt.Errorf("project graph has not been built")
	}
	runner := a.opts.Runner
	if runner == nil {
		runner = sim.NewExecRunner(a.Config.Simulator.Name, a.Config.Simulator.Builtins, a.root)
	}
	return runner.Run(ctx, a.Graph)
}

// Summary renders a one-invocation overview for the terminal.
func (a *App) Summary() string {
	if a.Graph == nil {
		return "project graph has not been built\n"
	}
	out := fmt.Sprintf("Project root: %s\n", a.root)
	for _, lib := range a.Graph.Libraries() {
		out += fmt.Sprintf("  library %-12s %d files\n", lib.Name(), len(lib.Files()))
	}
	for _, tb := range a.Graph.TestBenches() {
		out += fmt.Sprintf("  bench   %s.%s (%d generics)\n",
			tb.Library().Name(), tb.Unit(), len(tb.GenericKeys()))
	}
	return out
}
