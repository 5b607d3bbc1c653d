// Package hooks provides production-ready Hook, Logger, and metrics
// implementations for the resolution core.
package hooks

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/Skryldev/imageio/core"
)

// ── Structured logger adapters ────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// CharmLogger wraps a charmbracelet/log logger to satisfy core.Logger.
type CharmLogger struct {
	log *charmlog.Logger
}

// NewCharmLogger creates a logger backed by an existing charm logger.
func NewCharmLogger(l *charmlog.Logger) *CharmLogger { return &CharmLogger{log: l} }

// NewDefaultLogger builds the shipped stderr logger at the given level.
// Unknown levels fall back to info.
func NewDefaultLogger(level string) *CharmLogger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:  lvl,
		Prefix: "imageio",
	})
	return &CharmLogger{log: l}
}

func (c *CharmLogger) Debug(msg string, fields ...interface{}) { c.log.Debug(msg, fields...) }
func (c *CharmLogger) Info(msg string, fields ...interface{})  { c.log.Info(msg, fields...) }
func (c *CharmLogger) Warn(msg string, fields ...interface{})  { c.log.Warn(msg, fields...) }
func (c *CharmLogger) Error(msg string, fields ...interface{}) { c.log.Error(msg, fields...) }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs around every module load attempt.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeLoad(path string) {
	h.logger.Debug("plugin.load.start", "path", path)
}

func (h *LoggingHook) AfterLoad(path string, desc core.Descriptor, err error) {
	if err != nil {
		// Non-module files and stale builds land here; expected, not fatal.
		h.logger.Debug("plugin.load.skipped", "path", path, "error", err.Error())
		return
	}
	h.logger.Info("plugin.load.done",
		"path", path,
		"format", desc.FormatName,
		"input", desc.InputFactory != nil,
		"output", desc.OutputFactory != nil,
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics atomically; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	scans       int64
	loadCalls   int64
	loadErrors  int64
	loadTimeMs  int64
	resolveHits int64
	resolveMiss int64
	errorsByCat map[string]int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{errorsByCat: make(map[string]int64)}
}

func (m *InMemoryMetrics) RecordScan(_ int) {
	atomic.AddInt64(&m.scans, 1)
}

func (m *InMemoryMetrics) RecordModuleLoad(_ string, d time.Duration, err error) {
	atomic.AddInt64(&m.loadCalls, 1)
	atomic.AddInt64(&m.loadTimeMs, d.Milliseconds())
	if err != nil {
		atomic.AddInt64(&m.loadErrors, 1)
	}
}

func (m *InMemoryMetrics) RecordResolve(_ core.Format, hit bool) {
	if hit {
		atomic.AddInt64(&m.resolveHits, 1)
	} else {
		atomic.AddInt64(&m.resolveMiss, 1)
	}
}

func (m *InMemoryMetrics) RecordError(_ string, category string) {
	m.mu.Lock()
	m.errorsByCat[category]++
	m.mu.Unlock()
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	Scans       int64
	LoadCalls   int64
	LoadErrors  int64
	LoadTimeMs  int64
	ResolveHits int64
	ResolveMiss int64
	ErrorsByCat map[string]int64
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := MetricsSnapshot{
		Scans:       atomic.LoadInt64(&m.scans),
		LoadCalls:   atomic.LoadInt64(&m.loadCalls),
		LoadErrors:  atomic.LoadInt64(&m.loadErrors),
		LoadTimeMs:  atomic.LoadInt64(&m.loadTimeMs),
		ResolveHits: atomic.LoadInt64(&m.resolveHits),
		ResolveMiss: atomic.LoadInt64(&m.resolveMiss),
		ErrorsByCat: make(map[string]int64, len(m.errorsByCat)),
	}
	for k, v := range m.errorsByCat {
		snap.ErrorsByCat[k] = v
	}
	return snap
}

var _ core.Logger = (*SlogLogger)(nil)
var _ core.Logger = (*CharmLogger)(nil)
var _ core.Hook = (*LoggingHook)(nil)
var _ core.MetricsCollector = (*InMemoryMetrics)(nil)
