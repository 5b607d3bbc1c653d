package core

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/Skryldev/imageio/errors"
)

// ── Token derivation ──────────────────────────────────────────────────────────

// NormalizeToken lowercases a format token.  All registry keys pass through
// here before insertion or lookup.
func NormalizeToken(s string) Format {
	return Format(strings.ToLower(s))
}

// TokenFor derives the format token from a filename or explicit format
// token.  A recognizable extension wins ("photo.JPG" → "jpg"); otherwise the
// whole string is the token, which supports lookups by bare format name
// ("png" with no dot).
func TokenFor(nameOrToken string) Format {
	ext := filepath.Ext(nameOrToken)
	if ext == "" {
		return NormalizeToken(nameOrToken)
	}
	return NormalizeToken(strings.TrimPrefix(ext, "."))
}

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver is the public entry point of the resolution subsystem.  Given a
// filename or explicit token it consults the registry, triggering one
// scan-and-load pass on the first miss, and returns a ready factory.
type Resolver struct {
	reg *Registry
}

// NewResolver returns a Resolver over reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// ResolveInput returns the input factory for nameOrToken, populating the
// registry from searchPath on a first miss.
func (r *Resolver) ResolveInput(nameOrToken, searchPath string) (InputFactory, error) {
	if nameOrToken == "" {
		return nil, apperrors.New(apperrors.CategoryInput, "resolve.input",
			apperrors.ErrEmptyInput)
	}
	token := TokenFor(nameOrToken)
	f, ok := r.reg.resolveInputFactory(token, searchPath)
	if !ok {
		return nil, r.notFound("resolve.input", nameOrToken, searchPath)
	}
	return f, nil
}

// ResolveOutput returns the output factory for nameOrToken, populating the
// registry from searchPath on a first miss.
func (r *Resolver) ResolveOutput(nameOrToken, searchPath string) (OutputFactory, error) {
	if nameOrToken == "" {
		return nil, apperrors.New(apperrors.CategoryInput, "resolve.output",
			apperrors.ErrEmptyInput)
	}
	token := TokenFor(nameOrToken)
	f, ok := r.reg.resolveOutputFactory(token, searchPath)
	if !ok {
		return nil, r.notFound("resolve.output", nameOrToken, searchPath)
	}
	return f, nil
}

func (r *Resolver) notFound(op, nameOrToken, searchPath string) error {
	return apperrors.New(apperrors.CategoryResolve, op,
		fmt.Errorf("%w: %q (searchpath %q)", apperrors.ErrFormatNotFound,
			nameOrToken, r.reg.scanner.EffectivePath(searchPath)))
}
