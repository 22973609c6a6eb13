package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUnits(t *testing.T) {
	dir := t.TempDir()

	top := writeSource(t, dir, "top.vhd", `library ieee;
use ieee.std_logic_1164.all;

entity neorv32_top is
  port(clk_i : in std_ulogic);
end entity;

architecture rtl of neorv32_top is
begin
end architecture;
`)
	tb := writeSource(t, dir, "tb.vhd", `-- entity commented_out is
ENTITY NEORV32_VUNIT_TB IS
  generic(ci_mode : boolean := false);
end entity;

configuration tb_cfg of neorv32_vunit_tb is
  for sim
  end for;
end configuration;
`)

	units, err := New().Units([]string{top, tb})
	require.NoError(t, err)

	assert.Contains(t, units, "neorv32_top")
	assert.Contains(t, units, "neorv32_vunit_tb", "matching is case-insensitive")
	assert.Contains(t, units, "tb_cfg")
	assert.NotContains(t, units, "commented_out")
	assert.NotContains(t, units, "rtl", "architectures are not top-level units")
}

func TestUnitsUnreadableFile(t *testing.T) {
	_, err := New().Units([]string{filepath.Join(t.TempDir(), "missing.vhd")})
	assert.Error(t, err)
}

func TestUnitsEmptyInput(t *testing.T) {
	units, err := New().Units(nil)
	require.NoError(t, err)
	assert.Empty(t, units)
}
