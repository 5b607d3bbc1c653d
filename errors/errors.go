package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryResolve  Category = "resolve"
	CategoryScan     Category = "scan"
	CategoryLoad     Category = "load"
	CategoryRegistry Category = "registry"
	CategoryDecode   Category = "decode"
	CategoryEncode   Category = "encode"
	CategoryConfig   Category = "config"
	CategoryInput    Category = "input"
)

// OpError is the structured error type used throughout the module.
type OpError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// New creates an OpError.
func New(category Category, op string, err error) *OpError {
	return &OpError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Category == cat
	}
	return false
}

// Sentinel errors for the resolution failure taxonomy.  All are non-fatal;
// failures surface as a nil result plus one of these wrapped in an OpError.
var (
	// ErrEmptyInput — no filename or token supplied; short-circuits before
	// any filesystem or registry access.
	ErrEmptyInput = errors.New("empty input")
	// ErrFormatNotFound — no table entry exists for the requested token
	// after a full scan-and-load pass.
	ErrFormatNotFound = errors.New("no plugin found for format")
	// ErrVersionMismatch — the interface-version marker is missing or does
	// not equal the expected constant.
	ErrVersionMismatch = errors.New("plugin interface version mismatch")
	// ErrNoCapabilities — the module loaded and version-checked but exposes
	// neither an input nor an output factory.
	ErrNoCapabilities = errors.New("plugin exposes no input or output factory")
	// ErrDuplicateFormat — a second distinct file claims an already
	// registered format name.
	ErrDuplicateFormat = errors.New("format already registered by another plugin")
	// ErrUnsupportedFormat — a codec handle was asked to process a format
	// it does not implement.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
