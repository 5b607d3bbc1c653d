// Package plugin implements module discovery and dynamic loading for the
// registry: a non-recursive directory scanner for candidate files matching
// the module naming convention, and a shared-library loader that verifies
// the interface-version marker and fetches each module's capability
// descriptor.
package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Skryldev/imageio/core"
)

// EnvLibraryPath names the environment variable whose value is prepended to
// every caller-supplied search path.
const EnvLibraryPath = "IMAGEIO_LIBRARY_PATH"

// ModuleSuffix returns the filename suffix a candidate module must carry,
// ".imageio." plus the platform shared-library extension.
func ModuleSuffix() string {
	return ".imageio." + sharedLibraryExt()
}

func sharedLibraryExt() string {
	switch runtime.GOOS {
	case "darwin":
		return "dylib"
	case "windows":
		return "dll"
	default:
		return "so"
	}
}

// Scanner enumerates candidate module files.  Each Scan call performs a
// fresh walk; directories are listed a single level deep, in search-path
// order, and unreadable or missing directories are silently skipped.
type Scanner struct {
	// DisableEnv ignores EnvLibraryPath; used when the embedding
	// application wants full control of the search path.
	DisableEnv bool
}

// NewScanner returns a Scanner honouring the environment override.
func NewScanner() *Scanner { return &Scanner{} }

// EffectivePath merges the environment override (prepended) with the
// caller-supplied search path.
func (s *Scanner) EffectivePath(searchPath string) string {
	if s.DisableEnv {
		return searchPath
	}
	env := os.Getenv(EnvLibraryPath)
	if env == "" {
		return searchPath
	}
	if searchPath == "" {
		return env
	}
	return env + string(filepath.ListSeparator) + searchPath
}

// Scan walks every directory of the effective search path and yields one
// candidate per file matching the module naming convention, in discovery
// order.  The token is the filename with the suffix stripped.
func (s *Scanner) Scan(searchPath string) []core.Candidate {
	suffix := ModuleSuffix()
	var candidates []core.Candidate
	for _, dir := range filepath.SplitList(s.EffectivePath(searchPath)) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Missing or unreadable directory is not an error for the scan.
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			candidates = append(candidates, core.Candidate{
				Token: strings.TrimSuffix(name, suffix),
				Path:  filepath.Join(dir, name),
			})
		}
	}
	return candidates
}

var _ core.Scanner = (*Scanner)(nil)
