package core

import (
	"context"
	"io"
	"time"
)

// ImageInput is a reader handle for one format.  Factories return a fresh
// instance per call; instances are not shared between callers.
// Implementations live in adapters/ and in dynamically loaded modules.
type ImageInput interface {
	// FormatName reports the canonical format this handle decodes.
	FormatName() Format
	// Decode reads from r and returns the decoded ImageData.
	Decode(ctx context.Context, r io.Reader) (*ImageData, error)
}

// ImageOutput is a writer handle for one format.
type ImageOutput interface {
	FormatName() Format
	Encode(ctx context.Context, img *ImageData, opts EncodeOptions) ([]byte, error)
}

// InputFactory produces a new reader handle.
type InputFactory func() ImageInput

// OutputFactory produces a new writer handle.
type OutputFactory func() ImageOutput

// Module is an opened loadable module.  Handles stay open for the life of
// the registry; Close is called only on modules that fail the usefulness
// check and on Reset.
type Module interface {
	Path() string
	Close() error
}

// ModuleLoader opens a dynamic module, verifies its interface-version
// marker, and resolves its capability descriptor.  It has no knowledge of
// the registry.  Implementations live in the plugin package; tests inject
// in-memory fakes.
type ModuleLoader interface {
	Open(path string) (*LoadResult, error)
}

// Scanner enumerates candidate module files across an ordered search path.
// Each Scan call performs a fresh filesystem walk.
type Scanner interface {
	Scan(searchPath string) []Candidate
	// EffectivePath reports the merged search path actually walked,
	// including any environment override.  Used in diagnostics.
	EffectivePath(searchPath string) string
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// MetricsCollector receives observations from the resolution path.
type MetricsCollector interface {
	// RecordScan is called once per scan-and-load pass.
	RecordScan(candidates int)
	RecordModuleLoad(path string, d time.Duration, err error)
	RecordResolve(token Format, hit bool)
	RecordError(op string, category string)
}

// Hook is an optional observer invoked around module loads.
type Hook interface {
	BeforeLoad(path string)
	AfterLoad(path string, desc Descriptor, err error)
}
