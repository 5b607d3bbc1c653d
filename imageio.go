// Package imageio resolves image formats to pluggable codec modules.  Given
// a filename or an explicit format token it finds the module implementing
// that format — builtin or discovered on a plugin search path — and returns
// a ready reader or writer handle.
package imageio

import (
	"sync"

	"github.com/Skryldev/imageio/adapters/codec"
	"github.com/Skryldev/imageio/config"
	"github.com/Skryldev/imageio/core"
	"github.com/Skryldev/imageio/plugin"
)

// Re-export Format constants for convenience.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
	WebP = core.FormatWebP
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// Library is the primary entry point.  Each Library owns an isolated
// registry; construct separate instances for isolated plugin sets (tests do
// this), or use the package-level CreateInput/CreateOutput for the shared
// process-wide instance.
type Library struct {
	cfg config.Config
	reg *core.Registry
	res *core.Resolver
}

// New creates a fully wired Library.  With cfg.EnableBuiltins the bundled
// jpeg, png, and webp codecs are registered up front and therefore own
// those format names; plugin files claiming them are rejected as
// duplicates.
func New(cfg config.Config) *Library {
	scanner := plugin.NewScanner()
	scanner.DisableEnv = cfg.DisableEnvPath
	reg := core.NewRegistry(plugin.NewSharedLibraryLoader(), scanner)

	if cfg.EnableBuiltins {
		for _, desc := range codec.Descriptors(cfg.DefaultQuality) {
			// Builtins register into an empty registry; no conflicts possible.
			_ = reg.AddBuiltin(desc)
		}
	}

	return &Library{cfg: cfg, reg: reg, res: core.NewResolver(reg)}
}

// SetLogger attaches a structured logger.
func (l *Library) SetLogger(logger core.Logger) { l.reg.SetLogger(logger) }

// SetMetrics attaches a metrics collector.
func (l *Library) SetMetrics(m core.MetricsCollector) { l.reg.SetMetrics(m) }

// AddHook registers an observer for module load events.
func (l *Library) AddHook(h core.Hook) { l.reg.AddHook(h) }

// RegisterModule registers a statically linked module (for example the vips
// backend) through the same conflict rules as discovered plugins.
func (l *Library) RegisterModule(desc core.Descriptor) error {
	return l.reg.AddBuiltin(desc)
}

// Registry exposes the underlying registry for advanced use (e.g., direct
// catalog access in tests).  Prefer the high-level API for normal usage.
func (l *Library) Registry() *core.Registry { return l.reg }

// CreateInput resolves a reader handle for the given filename or format
// token and returns a fresh instance of it.  searchPath may be empty when
// the configured or environment search path suffices.
func (l *Library) CreateInput(nameOrToken, searchPath string) (core.ImageInput, error) {
	factory, err := l.res.ResolveInput(nameOrToken, l.effectiveSearchPath(searchPath))
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// CreateOutput resolves a writer handle for the given filename or format
// token and returns a fresh instance of it.
func (l *Library) CreateOutput(nameOrToken, searchPath string) (core.ImageOutput, error) {
	factory, err := l.res.ResolveOutput(nameOrToken, l.effectiveSearchPath(searchPath))
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

func (l *Library) effectiveSearchPath(searchPath string) string {
	if searchPath == "" {
		return l.cfg.SearchPath
	}
	return searchPath
}

// ── Process-wide default library ──────────────────────────────────────────────

var defaultLibrary = sync.OnceValue(func() *Library {
	return New(config.Default())
})

// Default returns the shared process-wide Library.
func Default() *Library { return defaultLibrary() }

// CreateInput resolves a reader handle on the shared Library.
func CreateInput(nameOrToken, searchPath string) (core.ImageInput, error) {
	return Default().CreateInput(nameOrToken, searchPath)
}

// CreateOutput resolves a writer handle on the shared Library.
func CreateOutput(nameOrToken, searchPath string) (core.ImageOutput, error) {
	return Default().CreateOutput(nameOrToken, searchPath)
}
