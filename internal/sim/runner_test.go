package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"hdlbench/internal/fsglob"
	"hdlbench/internal/project"
)

func simGraph(t *testing.T) *project.Project {
	t.Helper()
	p := project.New(project.Options{
		Root: "/proj",
		Globber: fsglob.Static{Matches: map[string][]string{
			"*.vhd": {"/proj/a.vhd", "/proj/b.vhd"},
		}},
	})

	lib, err := p.AddLibrary("neorv32")
	require.NoError(t, err)
	require.NoError(t, lib.AddSourceFiles("*.vhd"))

	tb, err := p.TestBench("neorv32", "neorv32_vunit_tb", nil)
	require.NoError(t, err)
	require.NoError(t, tb.SetGeneric("ci_mode", cty.BoolVal(true)))

	require.NoError(t, p.SetSimOption("disable_ieee_warnings", cty.BoolVal(true)))
	flags, err := project.FromGo([]string{"--max-stack-alloc=256"})
	require.NoError(t, err)
	require.NoError(t, p.SetSimOption("ghdl.sim_flags", flags))

	return p
}

func TestAnalyzeArgs(t *testing.T) {
	p := simGraph(t)
	r := NewExecRunner("ghdl", []string{"osvvm"}, "/proj")

	args := r.AnalyzeArgs(p.Libraries()[0])
	assert.Equal(t, []string{"-a", "--work=neorv32", "-Posvvm", "/proj/a.vhd", "/proj/b.vhd"}, args)
}

func TestElabRunArgs(t *testing.T) {
	p := simGraph(t)
	r := NewExecRunner("ghdl", nil, "/proj")

	args := r.ElabRunArgs(p, p.TestBenches()[0])
	assert.Equal(t, []string{
		"--elab-run", "--work=neorv32", "neorv32_vunit_tb",
		"-gci_mode=true",
		"--disable_ieee_warnings=true",
		"--max-stack-alloc=256",
	}, args)
}

func TestElabRunArgsSkipsForeignFlagBundles(t *testing.T) {
	p := simGraph(t)
	r := NewExecRunner("nvc", nil, "/proj")

	args := r.ElabRunArgs(p, p.TestBenches()[0])
	assert.NotContains(t, args, "--max-stack-alloc=256",
		"ghdl.sim_flags must not leak into another simulator's command line")
}

func TestRunInvokesSimulator(t *testing.T) {
	p := simGraph(t)

	ok := NewExecRunner("true", nil, t.TempDir())
	assert.NoError(t, ok.Run(context.Background(), p))

	failing := NewExecRunner("false", nil, t.TempDir())
	err := failing.Run(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze library")
}

func TestRunMissingSimulator(t *testing.T) {
	p := simGraph(t)
	r := NewExecRunner("definitely-not-a-simulator", nil, t.TempDir())
	assert.Error(t, r.Run(context.Background(), p))
}
