package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Empty(t, cfg.IgnoreFilePrefixes)
}

func TestLoadExplicitTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phlint.toml")
	body := "ignore_file_prefixes = [\"_\", \"test_\"]\nself_check = true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.SelfCheck)
	require.Equal(t, []string{"_", "test_"}, cfg.IgnoreFilePrefixes)
}

func TestIsIgnoredByPrefix(t *testing.T) {
	cfg := Config{IgnoreFilePrefixes: []string{"_"}}
	require.True(t, cfg.IsIgnored("/src/_helper.php"))
	require.False(t, cfg.IsIgnored("/src/main.php"))
}

func TestIsIgnoredByGlob(t *testing.T) {
	cfg := Config{IgnoreGlobs: []string{"**/vendor/**"}}
	require.True(t, cfg.IsIgnored("app/vendor/pkg/file.php"))
	require.False(t, cfg.IsIgnored("app/src/file.php"))
}

func TestMergeFlagsOverrideConfig(t *testing.T) {
	base := Config{IgnoreFilePrefixes: []string{"_"}, SelfCheck: false}
	override := Config{SelfCheck: true}
	merged := base.Merge(override)
	require.True(t, merged.SelfCheck)
	require.Equal(t, []string{"_"}, merged.IgnoreFilePrefixes)
}

func TestMarshalTOMLRoundTrip(t *testing.T) {
	cfg := Config{IgnoreFilePrefixes: []string{"_"}, SelfCheck: true, HostStubPath: "stubs/"}
	data, err := MarshalTOML(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	require.Equal(t, cfg.IgnoreFilePrefixes, back.IgnoreFilePrefixes)
	require.Equal(t, cfg.SelfCheck, back.SelfCheck)
	require.Equal(t, cfg.HostStubPath, back.HostStubPath)
}
