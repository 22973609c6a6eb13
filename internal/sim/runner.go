// Package sim is the invocation boundary to the external simulator. It
// renders the finished project graph into command lines and launches them;
// it never interprets simulation results beyond the process exit status.
package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"hdlbench/internal/project"
)

// Runner executes the simulation for a completed project graph.
type Runner interface {
	Run(ctx context.Context, p *project.Project) error
}

// ExecRunner drives a GHDL-style command line simulator: one analysis pass
// per library in registration order, then one elaborate-and-run per
// registered test bench.
type ExecRunner struct {
	// Command is the simulator executable, e.g. "ghdl".
	Command string
	// Builtins names precompiled support libraries (osvvm and friends),
	// forwarded as -P search-path flags.
	Builtins []string
	// WorkDir is the working directory for simulator processes.
	WorkDir string

	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner(command string, builtins []string, workDir string) *ExecRunner {
	return &ExecRunner{Command: command, Builtins: builtins, WorkDir: workDir}
}

func (r *ExecRunner) Run(ctx context.Context, p *project.Project) error {
	for _, lib := range p.Libraries() {
		if len(lib.Files()) == 0 {
			continue
		}
		args := r.AnalyzeArgs(lib)
		if err := r.exec(ctx, args); err != nil {
			return fmt.Errorf("analyze library %q: %w", lib.Name(), err)
		}
	}

	for _, tb := range p.TestBenches() {
		args := r.ElabRunArgs(p, tb)
		slog.Info("running test bench", "library", tb.Library().Name(), "unit", tb.Unit())
		if err := r.exec(ctx, args); err != nil {
			return fmt.Errorf("run test bench %q: %w", tb.Unit(), err)
		}
	}
	return nil
}

// AnalyzeArgs builds the analysis command line for one library.
func (r *ExecRunner) AnalyzeArgs(lib *project.Library) []string {
	args := []string{"-a", "--work=" + lib.Name()}
	args = append(args, r.builtinArgs()...)
	args = append(args, lib.Files()...)
	return args
}

// ElabRunArgs builds the elaborate-and-run command line for one test bench:
// generics in binding order, then global options, then raw simulator flags.
func (r *ExecRunner) ElabRunArgs(p *project.Project, tb *project.TestBench) []string {
	args := []string{"--elab-run", "--work=" + tb.Library().Name()}
	args = append(args, r.builtinArgs()...)
	args = append(args, tb.Unit())

	for _, key := range tb.GenericKeys() {
		v, _ := tb.Generic(key)
		args = append(args, "-g"+key+"="+project.FlagString(v))
	}

	args = append(args, r.optionArgs(p)...)
	return args
}

// optionArgs renders global simulator options. Raw flag bundles named
// "<simulator>.sim_flags" are appended verbatim when they target this
// runner's command; scalar options become --key=value and are left to the
// simulator to validate.
func (r *ExecRunner) optionArgs(p *project.Project) []string {
	var scalars, raw []string
	for _, key := range p.SimOptionKeys() {
		v, _ := p.SimOption(key)
		if items, ok := project.StringList(v); ok {
			if strings.TrimSuffix(key, ".sim_flags") == r.commandName() {
				raw = append(raw, items...)
			} else {
				slog.Debug("skipping simulator flags for another tool", "option", key)
			}
			continue
		}
		scalars = append(scalars, "--"+key+"="+project.FlagString(v))
	}
	return append(scalars, raw...)
}

func (r *ExecRunner) builtinArgs() []string {
	args := make([]string, 0, len(r.Builtins))
	for _, b := range r.Builtins {
		args = append(args, "-P"+b)
	}
	return args
}

func (r *ExecRunner) commandName() string {
	return strings.TrimSuffix(filepath.Base(r.Command), filepath.Ext(r.Command))
}

func (r *ExecRunner) exec(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = r.WorkDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	slog.Debug("invoking simulator", "command", r.Command, "args", args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", r.Command, strings.Join(args, " "), err)
	}
	return nil
}
