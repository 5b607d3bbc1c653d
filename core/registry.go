package core

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/Skryldev/imageio/errors"
)

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry owns the format dispatch tables and drives module loading.  It is
// safe for concurrent use: a single mutex guards all reads and writes and is
// held for the full duration of a resolution, including any scan-and-load
// pass.  Correctness over read concurrency; resolution is rare and cheap
// after the first pass.
type Registry struct {
	mu sync.Mutex

	// Factory tables, keyed by lowercase format name and extension.
	inputs  map[Format]InputFactory
	outputs map[Format]OutputFactory

	// Bookkeeping keyed by format name only.  paths is the
	// first-registration memory used for duplicate detection; handles keeps
	// loaded modules alive for the life of the registry.
	paths   map[Format]string
	handles map[Format]Module

	// Population runs at most once per registry, no matter how many tokens
	// fail to resolve afterwards.
	populated bool

	loader  ModuleLoader
	scanner Scanner
	logger  Logger
	metrics MetricsCollector
	hooks   []Hook
}

// NewRegistry returns an empty Registry wired to the given loader and
// scanner.
func NewRegistry(loader ModuleLoader, scanner Scanner) *Registry {
	return &Registry{
		inputs:  make(map[Format]InputFactory),
		outputs: make(map[Format]OutputFactory),
		paths:   make(map[Format]string),
		handles: make(map[Format]Module),
		loader:  loader,
		scanner: scanner,
		logger:  nopLogger{},
		metrics: nopMetrics{},
	}
}

// SetLogger attaches a structured logger.
func (r *Registry) SetLogger(l Logger) {
	r.mu.Lock()
	if l != nil {
		r.logger = l
	}
	r.mu.Unlock()
}

// SetMetrics attaches a metrics collector.
func (r *Registry) SetMetrics(m MetricsCollector) {
	r.mu.Lock()
	if m != nil {
		r.metrics = m
	}
	r.mu.Unlock()
}

// AddHook registers an observer for module load events.
func (r *Registry) AddHook(h Hook) {
	r.mu.Lock()
	r.hooks = append(r.hooks, h)
	r.mu.Unlock()
}

// ── Lookups ───────────────────────────────────────────────────────────────────

// LookupInput returns the input factory for token, if any.  token must
// already be normalized.
func (r *Registry) LookupInput(token Format) (InputFactory, bool) {
	r.mu.Lock()
	f, ok := r.inputs[token]
	r.mu.Unlock()
	return f, ok
}

// LookupOutput returns the output factory for token, if any.
func (r *Registry) LookupOutput(token Format) (OutputFactory, bool) {
	r.mu.Lock()
	f, ok := r.outputs[token]
	r.mu.Unlock()
	return f, ok
}

// Plugins returns a snapshot of all registered plugin records.
func (r *Registry) Plugins() []PluginRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]PluginRecord, 0, len(r.paths))
	for name, path := range r.paths {
		_, in := r.inputs[name]
		_, out := r.outputs[name]
		records = append(records, PluginRecord{
			FormatName:     name,
			Path:           path,
			SupportsInput:  in,
			SupportsOutput: out,
		})
	}
	return records
}

// ── Population ────────────────────────────────────────────────────────────────

// EnsurePopulated runs one scan-and-load pass over searchPath if no
// population attempt has happened yet for this registry.  Otherwise it is a
// no-op, even if the earlier pass registered nothing.
func (r *Registry) EnsurePopulated(searchPath string) {
	r.mu.Lock()
	r.ensurePopulatedLocked(searchPath)
	r.mu.Unlock()
}

func (r *Registry) ensurePopulatedLocked(searchPath string) {
	if r.populated {
		return
	}
	r.populated = true

	candidates := r.scanner.Scan(searchPath)
	r.metrics.RecordScan(len(candidates))
	r.logger.Debug("registry.populate", "candidates", len(candidates),
		"searchpath", r.scanner.EffectivePath(searchPath))
	for _, c := range candidates {
		r.catalogLocked(NormalizeToken(c.Token), c.Path)
	}
}

// Catalog registers the module at path under the given format token.  It is
// the idempotent per-candidate step of a scan pass, exposed for callers that
// discover modules out of band.
func (r *Registry) Catalog(token Format, path string) {
	r.mu.Lock()
	r.catalogLocked(NormalizeToken(string(token)), path)
	r.mu.Unlock()
}

func (r *Registry) catalogLocked(name Format, path string) {
	if prev, ok := r.paths[name]; ok {
		if prev == path {
			// Same file rediscovered (symlink, duplicate search-path
			// entry); not a conflict.
			return
		}
		r.logger.Warn("registry.duplicate_format",
			"format", name, "kept", prev, "ignored", path)
		r.metrics.RecordError("registry.catalog", string(apperrors.CategoryRegistry))
		return
	}

	for _, h := range r.hooks {
		h.BeforeLoad(path)
	}
	start := time.Now()
	res, err := r.loader.Open(path)
	r.metrics.RecordModuleLoad(path, time.Since(start), err)
	if err != nil {
		// Expected for non-module files and stale builds; skip and continue.
		for _, h := range r.hooks {
			h.AfterLoad(path, Descriptor{}, err)
		}
		r.logger.Debug("registry.load_skipped", "path", path, "error", err)
		return
	}
	for _, h := range r.hooks {
		h.AfterLoad(path, res.Descriptor, nil)
	}

	desc := res.Descriptor
	if desc.InputFactory == nil && desc.OutputFactory == nil {
		r.logger.Debug("registry.useless_module", "path", path,
			"error", apperrors.ErrNoCapabilities)
		if cerr := res.Module.Close(); cerr != nil {
			r.logger.Debug("registry.module_close", "path", path, "error", cerr)
		}
		return
	}
	if desc.FormatName != "" && NormalizeToken(string(desc.FormatName)) != name {
		r.logger.Debug("registry.format_name_mismatch",
			"token", name, "descriptor", desc.FormatName, "path", path)
	}

	r.paths[name] = path
	r.handles[name] = res.Module
	r.installLocked(name, desc)
	r.logger.Debug("registry.registered", "format", name, "path", path,
		"input", desc.InputFactory != nil, "output", desc.OutputFactory != nil)
}

// AddBuiltin registers a statically linked module through the same conflict
// rules as dynamically discovered ones.  Builtins claim their format name
// first, so a later plugin file for the same name is rejected as a
// duplicate.
func (r *Registry) AddBuiltin(desc Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := NormalizeToken(string(desc.FormatName))
	if name == "" {
		return apperrors.New(apperrors.CategoryRegistry, "registry.add_builtin",
			fmt.Errorf("descriptor has no format name"))
	}
	if desc.InputFactory == nil && desc.OutputFactory == nil {
		return apperrors.New(apperrors.CategoryRegistry, "registry.add_builtin",
			apperrors.ErrNoCapabilities)
	}
	if prev, ok := r.paths[name]; ok {
		r.logger.Warn("registry.duplicate_format",
			"format", name, "kept", prev, "ignored", BuiltinPath)
		return apperrors.New(apperrors.CategoryRegistry, "registry.add_builtin",
			fmt.Errorf("%w: %s", apperrors.ErrDuplicateFormat, name))
	}
	r.paths[name] = BuiltinPath
	r.installLocked(name, desc)
	return nil
}

// installLocked fills the factory tables.  Extension keys are inserted only
// if absent; later writers for the same extension are ignored without
// diagnostic, unlike format-name conflicts.
func (r *Registry) installLocked(name Format, desc Descriptor) {
	if desc.OutputFactory != nil {
		r.outputs[name] = desc.OutputFactory
		for _, ext := range desc.OutputExtensions {
			key := NormalizeToken(ext)
			if _, exists := r.outputs[key]; !exists {
				r.outputs[key] = desc.OutputFactory
			}
		}
	}
	if desc.InputFactory != nil {
		r.inputs[name] = desc.InputFactory
		for _, ext := range desc.InputExtensions {
			key := NormalizeToken(ext)
			if _, exists := r.inputs[key]; !exists {
				r.inputs[key] = desc.InputFactory
			}
		}
	}
}

// ── Resolution entry points ───────────────────────────────────────────────────
//
// These hold the lock across the whole lookup → populate → re-lookup
// sequence so concurrent callers never observe a partially populated
// registry.

func (r *Registry) resolveInputFactory(token Format, searchPath string) (InputFactory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.inputs[token]; ok {
		r.metrics.RecordResolve(token, true)
		return f, true
	}
	r.ensurePopulatedLocked(searchPath)
	f, ok := r.inputs[token]
	r.metrics.RecordResolve(token, ok)
	return f, ok
}

func (r *Registry) resolveOutputFactory(token Format, searchPath string) (OutputFactory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.outputs[token]; ok {
		r.metrics.RecordResolve(token, true)
		return f, true
	}
	r.ensurePopulatedLocked(searchPath)
	f, ok := r.outputs[token]
	r.metrics.RecordResolve(token, ok)
	return f, ok
}

// ── Teardown ──────────────────────────────────────────────────────────────────

// Reset closes all module handles and restores the empty, unpopulated
// state.  Intended for tests; production registries live for the process.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, h := range r.handles {
		if err := h.Close(); err != nil {
			r.logger.Debug("registry.module_close", "format", name, "error", err)
		}
	}
	r.inputs = make(map[Format]InputFactory)
	r.outputs = make(map[Format]OutputFactory)
	r.paths = make(map[Format]string)
	r.handles = make(map[Format]Module)
	r.populated = false
}

// ── No-op defaults ────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) RecordScan(int)                                {}
func (nopMetrics) RecordModuleLoad(string, time.Duration, error) {}
func (nopMetrics) RecordResolve(Format, bool)                    {}
func (nopMetrics) RecordError(string, string)                    {}
