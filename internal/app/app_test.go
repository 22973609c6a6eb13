package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlbench/internal/config"
	"hdlbench/internal/core/errors"
	"hdlbench/internal/fsglob"
	"hdlbench/internal/project"
)

func testConfig() *config.Config {
	return &config.Config{
		Paths: config.Paths{ProjectRoot: "/proj"},
		Libraries: []config.LibraryEntry{
			{Name: "neorv32", Patterns: []string{"*.vhd", "rtl/**/*.vhd"}},
		},
		TestBenches: []config.TestBenchEntry{
			{Library: "neorv32", Unit: "neorv32_vunit_tb"},
		},
		Simulator: config.Simulator{
			Name: "ghdl",
			Options: map[string]interface{}{
				"disable_ieee_warnings": true,
				"ghdl.sim_flags":        []interface{}{"--max-stack-alloc=256"},
			},
		},
		Output: config.Output{VHDLLS: "vhdl_ls.toml"},
	}
}

func fakeGlobber() fsglob.Static {
	return fsglob.Static{Matches: map[string][]string{
		"*.vhd":        {"/proj/a.vhd", "/proj/b.vhd"},
		"rtl/**/*.vhd": {"/proj/rtl/core.vhd"},
	}}
}

func TestBuildGraph(t *testing.T) {
	a := New(testConfig(), Options{CIMode: true, Globber: fakeGlobber()})
	require.NoError(t, a.Build())

	libs := a.Graph.Libraries()
	require.Len(t, libs, 1)
	assert.Equal(t, []string{"/proj/a.vhd", "/proj/b.vhd", "/proj/rtl/core.vhd"}, libs[0].Files())

	benches := a.Graph.TestBenches()
	require.Len(t, benches, 1)
	v, ok := benches[0].Generic("ci_mode")
	require.True(t, ok, "ci_mode must be bound from the CLI flag")
	assert.True(t, v.True())

	opt, ok := a.Graph.SimOption("disable_ieee_warnings")
	require.True(t, ok)
	assert.True(t, opt.True())
}

func TestBuildFailureLeavesNoGraph(t *testing.T) {
	cfg := testConfig()
	cfg.Libraries[0].Patterns = append(cfg.Libraries[0].Patterns, "*.sv")

	a := New(cfg, Options{Globber: fakeGlobber()})
	err := a.Build()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNoMatch))
	assert.Nil(t, a.Graph)

	assert.Error(t, a.EmitEditorConfig(), "emitter must never run for a failed build")
}

func TestBuildLenientOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Libraries[0].Patterns = append(cfg.Libraries[0].Patterns, "*.sv")

	a := New(cfg, Options{Globber: fakeGlobber(), Lenient: true})
	require.NoError(t, a.Build())
	assert.Len(t, a.Graph.Libraries()[0].Files(), 3)
}

type recordingRunner struct {
	ran int
}

func (r *recordingRunner) Run(ctx context.Context, p *project.Project) error {
	r.ran++
	return nil
}

func TestRunSimulation(t *testing.T) {
	runner := &recordingRunner{}
	a := New(testConfig(), Options{Globber: fakeGlobber(), Runner: runner})

	require.Error(t, a.RunSimulation(context.Background()), "running before building must fail")

	require.NoError(t, a.Build())
	require.NoError(t, a.RunSimulation(context.Background()))
	assert.Equal(t, 1, runner.ran)
}

func TestEndToEndOnRealFilesystem(t *testing.T) {
	root := t.TempDir()
	writeFile := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	writeFile("a.vhd", "entity neorv32_top is\nend entity;\n")
	writeFile("b.vhd", "entity neorv32_vunit_tb is\nend entity;\n")
	writeFile("rtl/core.vhd", "entity neorv32_cpu is\nend entity;\n")

	cfg := testConfig()
	cfg.Paths.ProjectRoot = root

	a := New(cfg, Options{CIMode: true})
	require.NoError(t, a.Build())
	require.NoError(t, a.EmitEditorConfig())

	var doc struct {
		Libraries map[string]struct {
			Files []string `toml:"files"`
		} `toml:"libraries"`
	}
	_, err := toml.DecodeFile(filepath.Join(root, "vhdl_ls.toml"), &doc)
	require.NoError(t, err)

	want := []string{
		filepath.ToSlash(filepath.Join(root, "a.vhd")),
		filepath.ToSlash(filepath.Join(root, "b.vhd")),
		filepath.ToSlash(filepath.Join(root, "rtl", "core.vhd")),
	}
	assert.Equal(t, want, doc.Libraries["neorv32"].Files)
}

func TestEndToEndUnknownUnit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.vhd"),
		[]byte("entity top is\nend entity;\n"), 0o644))

	cfg := testConfig()
	cfg.Paths.ProjectRoot = root
	cfg.Libraries[0].Patterns = []string{"*.vhd"}

	a := New(cfg, Options{})
	err := a.Build()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownUnit))
}

func TestSummary(t *testing.T) {
	a := New(testConfig(), Options{Globber: fakeGlobber()})
	require.NoError(t, a.Build())

	summary := a.Summary()
	assert.Contains(t, summary, "neorv32")
	assert.Contains(t, summary, "3 files")
	assert.Contains(t, summary, "neorv32.neorv32_vunit_tb")
}
