package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadReturnsZeroConfigWhenNoFileExists(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	if cfg.Distribution != "" || len(cfg.PluginPaths) != 0 {
		t.Fatalf("expected zero Config, got %+v", cfg)
	}
}

func TestLoadParsesCwdConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "distribution: acme-corp\npluginPaths:\n  - ./mods\n  - /opt/key/mods\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".key.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "acme-corp", cfg.Distribution)
	require.Equal(t, []string{"./mods", "/opt/key/mods"}, cfg.PluginPaths)
}

func TestLoadReturnsErrorOnMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".key.yaml"), []byte("distribution: [unterminated"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestSearchDirsIncludesCwdAndHome(t *testing.T) {
	dirs := searchDirs()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.Contains(t, dirs, cwd)

	home, err := os.UserHomeDir()
	if err == nil {
		require.Contains(t, dirs, home)
	}
}
