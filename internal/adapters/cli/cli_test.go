package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  type: sqlite\n  path: " + filepath.Join(dir, "searoutes.db") + "\n  auto_migrate: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestRootCommand_RegistersGroups(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"config", "migrate", "seed", "sweep", "ports", "player", "vessels", "ledger", "rating", "health"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSeedThenListPorts(t *testing.T) {
	cfg := writeConfig(t)

	require.NoError(t, run(t, "--config", cfg, "seed"))
	require.NoError(t, run(t, "--config", cfg, "seed"))
	require.NoError(t, run(t, "--config", cfg, "ports", "list"))
	require.NoError(t, run(t, "--config", cfg, "ports", "rules"))
	require.NoError(t, run(t, "--config", cfg, "sweep"))
	require.NoError(t, run(t, "--config", cfg, "health"))
}

func TestRegisterPlayer_RejectsDuplicate(t *testing.T) {
	cfg := writeConfig(t)

	require.NoError(t, run(t, "--config", cfg, "player", "register", "captain"))
	assert.Error(t, run(t, "--config", cfg, "player", "register", "captain"))
}

func TestVesselsLoad_RejectsBadAmount(t *testing.T) {
	cfg := writeConfig(t)

	err := run(t, "--config", cfg, "vessels", "load", "v-1", "oil", "lots")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestMaskPassword(t *testing.T) {
	masked := maskPassword("postgres://sea:secret@db:5432/searoutes")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "sea:")
	assert.Equal(t, "postgres://db:5432/searoutes", maskPassword("postgres://db:5432/searoutes"))
}

func TestFormatRequires(t *testing.T) {
	assert.Equal(t, "2 materials + 1 oil", formatRequires(map[string]int{"oil": 1, "materials": 2}))
}
