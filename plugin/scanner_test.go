package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/imageio/core"
	"github.com/Skryldev/imageio/plugin"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func joinPaths(dirs ...string) string {
	out := ""
	for i, d := range dirs {
		if i > 0 {
			out += string(filepath.ListSeparator)
		}
		out += d
	}
	return out
}

func TestScanMatchesNamingConvention(t *testing.T) {
	dir := t.TempDir()
	suffix := plugin.ModuleSuffix()
	jpegPath := writeFile(t, dir, "jpeg"+suffix)
	writeFile(t, dir, "README.txt")
	writeFile(t, dir, "jpeg.so")      // wrong suffix
	writeFile(t, dir, "jpeg.imageio") // missing platform extension
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"+suffix), 0o755))

	s := plugin.NewScanner()
	s.DisableEnv = true

	got := s.Scan(dir)
	assert.Equal(t, []core.Candidate{{Token: "jpeg", Path: jpegPath}}, got)
}

func TestScanPreservesSearchPathOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	suffix := plugin.ModuleSuffix()
	pathA := writeFile(t, dirA, "foo"+suffix)
	pathB := writeFile(t, dirB, "foo"+suffix)
	writeFile(t, dirB, "bar"+suffix)

	s := plugin.NewScanner()
	s.DisableEnv = true

	got := s.Scan(joinPaths(dirA, dirB))
	require.Len(t, got, 3)
	assert.Equal(t, core.Candidate{Token: "foo", Path: pathA}, got[0])
	// dirB entries come after, in directory-listing order.
	assert.Contains(t, got[1:], core.Candidate{Token: "foo", Path: pathB})
}

func TestScanSkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	suffix := plugin.ModuleSuffix()
	path := writeFile(t, dir, "png"+suffix)

	s := plugin.NewScanner()
	s.DisableEnv = true

	got := s.Scan(joinPaths("/does/not/exist", dir))
	assert.Equal(t, []core.Candidate{{Token: "png", Path: path}}, got)
}

func TestScanWalksFreshEachCall(t *testing.T) {
	dir := t.TempDir()
	suffix := plugin.ModuleSuffix()
	writeFile(t, dir, "one"+suffix)

	s := plugin.NewScanner()
	s.DisableEnv = true

	require.Len(t, s.Scan(dir), 1)

	// Each call walks fresh: a file added between calls is seen.
	writeFile(t, dir, "two"+suffix)
	assert.Len(t, s.Scan(dir), 2)
}

func TestEnvironmentPathIsPrepended(t *testing.T) {
	envDir := t.TempDir()
	argDir := t.TempDir()
	suffix := plugin.ModuleSuffix()
	envPath := writeFile(t, envDir, "foo"+suffix)
	argPath := writeFile(t, argDir, "foo"+suffix)
	t.Setenv(plugin.EnvLibraryPath, envDir)

	s := plugin.NewScanner()

	assert.Equal(t, joinPaths(envDir, argDir), s.EffectivePath(argDir))

	// The environment directory is scanned first, so its candidate leads.
	got := s.Scan(argDir)
	require.Len(t, got, 2)
	assert.Equal(t, envPath, got[0].Path)
	assert.Equal(t, argPath, got[1].Path)
}

func TestEnvironmentPathCanBeDisabled(t *testing.T) {
	envDir := t.TempDir()
	argDir := t.TempDir()
	suffix := plugin.ModuleSuffix()
	writeFile(t, envDir, "foo"+suffix)
	t.Setenv(plugin.EnvLibraryPath, envDir)

	s := plugin.NewScanner()
	s.DisableEnv = true

	assert.Equal(t, argDir, s.EffectivePath(argDir))
	assert.Empty(t, s.Scan(argDir))
}

func TestEffectivePathWithEmptyArgument(t *testing.T) {
	t.Setenv(plugin.EnvLibraryPath, "/env/only")

	s := plugin.NewScanner()
	assert.Equal(t, "/env/only", s.EffectivePath(""))
}
